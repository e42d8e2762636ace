package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// vp8xExifFlag is bit 3 of the VP8X flags byte.
const vp8xExifFlag = 0x08

var errNotWebP = errors.New("not a RIFF WebP file")

// withEXIF returns a copy of the WebP file in data with exif attached as an
// EXIF chunk. Files already in the extended (VP8X) layout get the chunk
// appended and the EXIF flag set; simple VP8/VP8L files are upgraded to the
// VP8X layout first, which needs the canvas size read from the bitstream
// header.
func withEXIF(data, exif []byte) ([]byte, error) {
	if len(data) < 20 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		return nil, errNotWebP
	}

	first := string(data[12:16])
	chunkLen := int(binary.LittleEndian.Uint32(data[16:20]))
	if 20+chunkLen > len(data) {
		return nil, errNotWebP
	}
	payload := data[20 : 20+chunkLen]

	var out []byte
	switch first {
	case "VP8X":
		out = append(out, data...)
		out[20] |= vp8xExifFlag
	case "VP8 ", "VP8L":
		w, h, err := canvasSize(first, payload)
		if err != nil {
			return nil, err
		}
		out = append(out, data[:12]...)
		out = appendChunk(out, "VP8X", vp8xPayload(w, h))
		out = append(out, data[12:]...)
	default:
		return nil, fmt.Errorf("unexpected first chunk %q", first)
	}

	out = appendChunk(out, "EXIF", exif)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	return out, nil
}

// vp8xPayload builds the 10-byte VP8X chunk body: flags with EXIF set, three
// reserved bytes, then canvas width-1 and height-1 as 24-bit little-endian.
func vp8xPayload(w, h int) []byte {
	p := make([]byte, 10)
	p[0] = vp8xExifFlag
	putUint24(p[4:7], uint32(w-1))
	putUint24(p[7:10], uint32(h-1))
	return p
}

// canvasSize extracts the canvas dimensions from a VP8 keyframe or VP8L
// stream header.
func canvasSize(fourCC string, payload []byte) (int, int, error) {
	switch fourCC {
	case "VP8 ":
		// Keyframe: 3-byte frame tag, start code 9D 01 2A, then 14-bit
		// width and height in two little-endian uint16s.
		if len(payload) < 10 || payload[3] != 0x9D || payload[4] != 0x01 || payload[5] != 0x2A {
			return 0, 0, errors.New("malformed VP8 keyframe header")
		}
		w := int(binary.LittleEndian.Uint16(payload[6:8]) & 0x3FFF)
		h := int(binary.LittleEndian.Uint16(payload[8:10]) & 0x3FFF)
		return w, h, nil
	case "VP8L":
		// Signature byte 2F, then width-1 and height-1 as packed 14-bit fields.
		if len(payload) < 5 || payload[0] != 0x2F {
			return 0, 0, errors.New("malformed VP8L header")
		}
		bits := binary.LittleEndian.Uint32(payload[1:5])
		w := int(bits&0x3FFF) + 1
		h := int((bits>>14)&0x3FFF) + 1
		return w, h, nil
	}
	return 0, 0, fmt.Errorf("unexpected chunk %q", fourCC)
}

// appendChunk writes a RIFF chunk (fourCC, little-endian size, payload) and
// the pad byte required after odd-sized payloads.
func appendChunk(dst []byte, fourCC string, payload []byte) []byte {
	dst = append(dst, fourCC...)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(payload)))
	dst = append(dst, payload...)
	if len(payload)%2 == 1 {
		dst = append(dst, 0)
	}
	return dst
}

func putUint24(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
}
