package codec

import "encoding/binary"

// EXIF/TIFF constants for the one tag we write.
const (
	tagImageDescription = 0x010E
	typeASCII           = 2
)

// exifDescription builds a minimal EXIF payload: a little-endian TIFF whose
// IFD0 holds desc as the ImageDescription (0x010E) ASCII tag. The payload
// starts at the TIFF header, as the WebP container's EXIF chunk expects.
func exifDescription(desc string) []byte {
	val := append([]byte(desc), 0) // ASCII values are NUL-terminated

	// Layout: header (8) + entry count (2) + one entry (12) + next-IFD (4),
	// so the out-of-line value starts at offset 26.
	const valueOffset = 26
	buf := make([]byte, 0, valueOffset+len(val))
	buf = append(buf, 'I', 'I', 0x2A, 0x00)
	buf = le32(buf, 8) // offset of IFD0
	buf = le16(buf, 1) // one directory entry
	buf = le16(buf, tagImageDescription)
	buf = le16(buf, typeASCII)
	buf = le32(buf, uint32(len(val)))
	buf = le32(buf, valueOffset)
	buf = le32(buf, 0) // no next IFD
	return append(buf, val...)
}

func le16(dst []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(dst, v)
}

func le32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}
