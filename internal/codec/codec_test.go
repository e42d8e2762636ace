package codec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gabriel-vasile/mimetype"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 0x80, A: 0xFF})
		}
	}
	return img
}

func writeTestPNG(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, testImage()); err != nil {
		t.Fatal(err)
	}
	return path
}

// spliceTextChunk inserts a tEXt chunk just before the PNG's IEND chunk.
func spliceTextChunk(t *testing.T, path, keyword, text string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	iend := len(data) - 12 // IEND is always last: length, type, CRC
	chunk := pngChunk("tEXt", []byte(keyword+"\x00"+text))
	out := append(append(append([]byte{}, data[:iend]...), chunk...), data[iend:]...)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestConvert_ProducesWebP(t *testing.T) {
	in := writeTestPNG(t, "in.png")
	out := filepath.Join(t.TempDir(), "out.webp")

	if err := (Converter{}).Convert(in, out, 80, false); err != nil {
		t.Fatal(err)
	}
	mt, err := mimetype.DetectFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !mt.Is("image/webp") {
		t.Errorf("output type = %s, want image/webp", mt)
	}
}

func TestConvert_MissingInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.webp")
	if err := (Converter{}).Convert("/does/not/exist.png", out, 80, false); err == nil {
		t.Error("want error for missing input")
	}
}

func TestConvert_KeepMetadataRejectsNonPNG(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.jpg")
	f, err := os.Create(in)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, testImage(), nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	err = (Converter{}).Convert(in, filepath.Join(dir, "out.webp"), 80, true)
	if !errors.Is(err, ErrWorkflowRequiresPNG) {
		t.Errorf("err = %v, want ErrWorkflowRequiresPNG", err)
	}
}

func TestConvert_KeepMetadataWithoutWorkflow(t *testing.T) {
	in := writeTestPNG(t, "in.png")
	out := filepath.Join(t.TempDir(), "out.webp")

	if err := (Converter{}).Convert(in, out, 80, true); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	mt := mimetype.Detect(data)
	if !mt.Is("image/webp") {
		t.Errorf("output type = %s, want image/webp", mt)
	}
	if bytes.Contains(data, []byte("Workflow:")) {
		t.Error("output carries workflow metadata for a source with none")
	}
}

func TestConvert_KeepMetadataEmbedsFilteredWorkflow(t *testing.T) {
	in := writeTestPNG(t, "in.png")
	spliceTextChunk(t, in, "workflow",
		`{"nodes":[{"id":1,"type":"LoraInfo"},{"id":2,"type":"KSampler"}]}`)
	out := filepath.Join(t.TempDir(), "out.webp")

	if err := (Converter{}).Convert(in, out, 80, true); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !mimetype.Detect(data).Is("image/webp") {
		t.Fatalf("output type = %s, want image/webp", mimetype.Detect(data))
	}
	if string(data[12:16]) != "VP8X" {
		t.Errorf("first chunk = %q, want extended layout", data[12:16])
	}
	if !bytes.Contains(data, []byte("EXIF")) {
		t.Error("no EXIF chunk in output")
	}
	if !bytes.Contains(data, []byte("Workflow:")) {
		t.Error("workflow description missing from output")
	}
	if !bytes.Contains(data, []byte("KSampler")) {
		t.Error("surviving node missing from embedded workflow")
	}
	if bytes.Contains(data, []byte("LoraInfo")) {
		t.Error("LoraInfo node leaked into embedded workflow")
	}
}
