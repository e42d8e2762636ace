package codec

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildWebP assembles a minimal RIFF WebP container around one chunk.
func buildWebP(fourCC string, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // fixed up below
	buf.WriteString("WEBP")
	buf.WriteString(fourCC)
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)
	if len(payload)%2 == 1 {
		buf.WriteByte(0)
	}
	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	return out
}

// vp8Keyframe builds a lossy bitstream header for the given canvas size.
func vp8Keyframe(w, h int) []byte {
	p := make([]byte, 10)
	p[3], p[4], p[5] = 0x9D, 0x01, 0x2A
	binary.LittleEndian.PutUint16(p[6:8], uint16(w))
	binary.LittleEndian.PutUint16(p[8:10], uint16(h))
	return p
}

func readUint24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

func TestWithEXIF_UpgradesVP8ToVP8X(t *testing.T) {
	in := buildWebP("VP8 ", vp8Keyframe(64, 48))
	exif := exifDescription("Workflow:{}")

	out, err := withEXIF(in, exif)
	if err != nil {
		t.Fatal(err)
	}

	if string(out[12:16]) != "VP8X" {
		t.Fatalf("first chunk = %q, want VP8X", out[12:16])
	}
	if binary.LittleEndian.Uint32(out[16:20]) != 10 {
		t.Errorf("VP8X size = %d, want 10", binary.LittleEndian.Uint32(out[16:20]))
	}
	if out[20]&vp8xExifFlag == 0 {
		t.Error("EXIF flag not set on VP8X")
	}
	if w := readUint24(out[24:27]); w != 63 {
		t.Errorf("canvas width-1 = %d, want 63", w)
	}
	if h := readUint24(out[27:30]); h != 47 {
		t.Errorf("canvas height-1 = %d, want 47", h)
	}
	if string(out[30:34]) != "VP8 " {
		t.Errorf("chunk after VP8X = %q, want the original VP8 chunk", out[30:34])
	}
	if !bytes.Contains(out, []byte("EXIF")) {
		t.Error("no EXIF chunk in output")
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); int(got) != len(out)-8 {
		t.Errorf("RIFF size = %d, want %d", got, len(out)-8)
	}
}

func TestWithEXIF_UpgradesVP8L(t *testing.T) {
	// 14-bit packed width-1 and height-1 after the 2F signature byte.
	w, h := 320, 200
	bits := uint32(w-1) | uint32(h-1)<<14
	payload := make([]byte, 5)
	payload[0] = 0x2F
	binary.LittleEndian.PutUint32(payload[1:5], bits)
	in := buildWebP("VP8L", payload)

	out, err := withEXIF(in, exifDescription("x"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out[12:16]) != "VP8X" {
		t.Fatalf("first chunk = %q, want VP8X", out[12:16])
	}
	if got := readUint24(out[24:27]); int(got) != w-1 {
		t.Errorf("canvas width-1 = %d, want %d", got, w-1)
	}
	if got := readUint24(out[27:30]); int(got) != h-1 {
		t.Errorf("canvas height-1 = %d, want %d", got, h-1)
	}
}

func TestWithEXIF_ExistingVP8XKeepsLayout(t *testing.T) {
	payload := make([]byte, 10)
	putUint24(payload[4:7], 63)
	putUint24(payload[7:10], 47)
	in := buildWebP("VP8X", payload)

	out, err := withEXIF(in, exifDescription("x"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out[12:16]) != "VP8X" {
		t.Fatalf("first chunk = %q", out[12:16])
	}
	if out[20]&vp8xExifFlag == 0 {
		t.Error("EXIF flag not set")
	}
	if got := readUint24(out[24:27]); got != 63 {
		t.Errorf("canvas width-1 = %d, want 63", got)
	}
	if !bytes.Contains(out, []byte("EXIF")) {
		t.Error("no EXIF chunk in output")
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); int(got) != len(out)-8 {
		t.Errorf("RIFF size = %d, want %d", got, len(out)-8)
	}
}

func TestWithEXIF_OddPayloadIsPadded(t *testing.T) {
	in := buildWebP("VP8 ", vp8Keyframe(8, 8))
	out, err := withEXIF(in, []byte{1, 2, 3}) // odd-sized EXIF payload
	if err != nil {
		t.Fatal(err)
	}
	if len(out)%2 != 0 {
		t.Errorf("output length %d is odd, pad byte missing", len(out))
	}
}

func TestWithEXIF_RejectsNonWebP(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte("RIFF")},
		{"wrong magic", append([]byte("RIFX\x00\x00\x00\x00WEBPVP8 "), make([]byte, 8)...)},
		{"not webp form", append([]byte("RIFF\x00\x00\x00\x00WAVEfmt "), make([]byte, 8)...)},
		{"bad keyframe", buildWebP("VP8 ", make([]byte, 10))},
		{"unknown first chunk", buildWebP("ABCD", make([]byte, 4))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := withEXIF(tt.data, nil); err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestExifDescription(t *testing.T) {
	desc := "Workflow:{\"nodes\":[]}"
	exif := exifDescription(desc)

	if !bytes.HasPrefix(exif, []byte{'I', 'I', 0x2A, 0x00}) {
		t.Fatalf("missing little-endian TIFF header: % x", exif[:4])
	}
	if got := binary.LittleEndian.Uint32(exif[4:8]); got != 8 {
		t.Errorf("IFD0 offset = %d, want 8", got)
	}
	if got := binary.LittleEndian.Uint16(exif[8:10]); got != 1 {
		t.Errorf("entry count = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint16(exif[10:12]); got != tagImageDescription {
		t.Errorf("tag = %#x, want %#x", got, tagImageDescription)
	}
	if got := binary.LittleEndian.Uint16(exif[12:14]); got != typeASCII {
		t.Errorf("type = %d, want ASCII", got)
	}
	if got := binary.LittleEndian.Uint32(exif[14:18]); int(got) != len(desc)+1 {
		t.Errorf("count = %d, want %d", got, len(desc)+1)
	}
	off := binary.LittleEndian.Uint32(exif[18:22])
	val := exif[off:]
	if string(val) != desc+"\x00" {
		t.Errorf("value = %q, want NUL-terminated description", val)
	}
}
