// Package video encodes a layer's rendered frame sequence into a Motion
// JPEG AVI so an animation can be shared outside the interactive map.
package video

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"log"

	"github.com/icza/mjpeg"

	"gridviz/internal/render"
)

// Options controls video encoding.
type Options struct {
	// FPS is the playback frame rate, clamped to [1, 30].
	FPS int
	// Quality is the JPEG quality of each frame, 1-100.
	Quality int
}

// DefaultOptions returns the default export settings.
func DefaultOptions() Options {
	return Options{FPS: 10, Quality: 90}
}

// ExportMJPEG writes the artifact sequence to an AVI file. All artifacts
// must be image-style (raster or quiver) and share the dimensions of the
// first frame.
func ExportMJPEG(artifacts []*render.Artifact, outputPath string, opts Options) error {
	if len(artifacts) == 0 {
		return fmt.Errorf("no frames to export")
	}
	if opts.FPS < 1 {
		opts.FPS = 1
	}
	if opts.FPS > 30 {
		opts.FPS = 30
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultOptions().Quality
	}

	first, err := artifacts[0].Image()
	if err != nil {
		return fmt.Errorf("frame 0: %w", err)
	}
	width := first.Bounds().Dx()
	height := first.Bounds().Dy()

	writer, err := mjpeg.New(outputPath, int32(width), int32(height), int32(opts.FPS))
	if err != nil {
		return fmt.Errorf("failed to create video writer: %w", err)
	}
	defer writer.Close()

	for i, a := range artifacts {
		var img image.Image
		if i == 0 {
			img = first
		} else {
			img, err = a.Image()
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
		}
		if img.Bounds().Dx() != width || img.Bounds().Dy() != height {
			return fmt.Errorf("frame %d is %dx%d, want %dx%d",
				i, img.Bounds().Dx(), img.Bounds().Dy(), width, height)
		}

		// JPEG has no alpha channel; flatten onto white.
		flat := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
		draw.Draw(flat, flat.Bounds(), img, img.Bounds().Min, draw.Over)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: opts.Quality}); err != nil {
			return fmt.Errorf("failed to encode frame %d: %w", i, err)
		}
		if err := writer.AddFrame(buf.Bytes()); err != nil {
			return fmt.Errorf("failed to add frame %d: %w", i, err)
		}
	}

	log.Printf("[VideoExport] MJPEG video exported: %s (%d frames, %d fps)", outputPath, len(artifacts), opts.FPS)
	return nil
}
