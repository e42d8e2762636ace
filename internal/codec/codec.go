// Package codec decodes source images and encodes them as WebP, optionally
// carrying ComfyUI workflow metadata from PNG text chunks into an EXIF tag
// of the output container.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// ErrWorkflowRequiresPNG is returned when metadata preservation is requested
// for a source that cannot carry embedded workflow metadata.
var ErrWorkflowRequiresPNG = errors.New("workflow metadata requires a PNG source")

// Converter is the production codec. The zero value is ready to use.
type Converter struct{}

// Convert decodes inputPath and writes a WebP file at outputPath with the
// given quality (1-100). With keepMetadata set, the source must be a PNG;
// its ComfyUI workflow (when present) is filtered and re-embedded as an EXIF
// ImageDescription tag, and the image is encoded without alpha. The output
// file is fully written and closed before Convert returns nil.
func (Converter) Convert(inputPath, outputPath string, quality int, keepMetadata bool) error {
	if keepMetadata {
		return convertWithWorkflow(inputPath, outputPath, quality)
	}

	img, err := imaging.Open(inputPath)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return os.WriteFile(outputPath, buf.Bytes(), 0o644)
}

func convertWithWorkflow(inputPath, outputPath string, quality int) error {
	mt, err := mimetype.DetectFile(inputPath)
	if err != nil {
		return fmt.Errorf("detect format: %w", err)
	}
	if !mt.Is("image/png") {
		return ErrWorkflowRequiresPNG
	}

	workflow, err := Workflow(inputPath)
	if err != nil {
		return err
	}

	img, err := imaging.Open(inputPath)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	// ComfyUI outputs are opaque; the workflow path always encodes RGB,
	// dropping any alpha channel.
	out, err := webp.EncodeRGB(img, float32(quality))
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if workflow != "" {
		out, err = withEXIF(out, exifDescription("Workflow:"+FilterWorkflow(workflow)))
		if err != nil {
			return fmt.Errorf("embed workflow: %w", err)
		}
	}
	return os.WriteFile(outputPath, out, 0o644)
}
