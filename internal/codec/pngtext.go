package codec

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

var errNotPNG = errors.New("not a PNG file")

// pngTextChunks walks a PNG's chunk list and collects the keyword→text pairs
// of every tEXt, zTXt and iTXt chunk. image/png does not surface ancillary
// chunks, so the walk is done by hand. Malformed individual text chunks are
// skipped rather than failing the whole file.
func pngTextChunks(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, errNotPNG
	}

	texts := make(map[string]string)
	off := len(pngSignature)
	for off+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[off : off+4]))
		typ := string(data[off+4 : off+8])
		dataStart := off + 8
		dataEnd := dataStart + length
		if length < 0 || dataEnd+4 > len(data) {
			return nil, fmt.Errorf("truncated chunk %q", typ)
		}
		chunk := data[dataStart:dataEnd]

		switch typ {
		case "tEXt":
			if k, v, ok := parseTEXt(chunk); ok {
				texts[k] = v
			}
		case "zTXt":
			if k, v, ok := parseZTXt(chunk); ok {
				texts[k] = v
			}
		case "iTXt":
			if k, v, ok := parseITXt(chunk); ok {
				texts[k] = v
			}
		case "IEND":
			return texts, nil
		}

		off = dataEnd + 4 // skip CRC
	}
	return texts, nil
}

// parseTEXt: keyword NUL text (Latin-1).
func parseTEXt(chunk []byte) (string, string, bool) {
	i := bytes.IndexByte(chunk, 0)
	if i < 0 {
		return "", "", false
	}
	return latin1(chunk[:i]), latin1(chunk[i+1:]), true
}

// parseZTXt: keyword NUL method zlib-data.
func parseZTXt(chunk []byte) (string, string, bool) {
	i := bytes.IndexByte(chunk, 0)
	if i < 0 || i+2 > len(chunk) || chunk[i+1] != 0 {
		return "", "", false
	}
	text, err := inflate(chunk[i+2:])
	if err != nil {
		return "", "", false
	}
	return latin1(chunk[:i]), latin1(text), true
}

// parseITXt: keyword NUL compFlag compMethod lang NUL translated NUL text (UTF-8).
func parseITXt(chunk []byte) (string, string, bool) {
	i := bytes.IndexByte(chunk, 0)
	if i < 0 || i+3 > len(chunk) {
		return "", "", false
	}
	keyword := string(chunk[:i])
	compFlag := chunk[i+1]
	rest := chunk[i+3:]

	j := bytes.IndexByte(rest, 0) // language tag
	if j < 0 {
		return "", "", false
	}
	rest = rest[j+1:]
	j = bytes.IndexByte(rest, 0) // translated keyword
	if j < 0 {
		return "", "", false
	}
	text := rest[j+1:]

	if compFlag == 1 {
		out, err := inflate(text)
		if err != nil {
			return "", "", false
		}
		return keyword, string(out), true
	}
	return keyword, string(text), true
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// latin1 decodes ISO 8859-1 bytes to a UTF-8 string.
func latin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
