// Package render turns grid slices into displayable frame artifacts:
// color-mapped raster images, vector-glyph (quiver) images, or geojson
// arrow geometry. Artifacts are immutable once produced and rendering is
// deterministic, so identical inputs always yield identical artifacts.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	geojson "github.com/paulmach/go.geojson"
)

// Method selects the rendering style of a layer.
type Method int

const (
	// MethodRaster renders a scalar slice as a color-mapped image.
	MethodRaster Method = iota
	// MethodQuiver renders a vector field as a dense glyph image.
	MethodQuiver
	// MethodGeoJSON renders a vector field as arrow line-string geometry.
	MethodGeoJSON
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodRaster:
		return "raster"
	case MethodQuiver:
		return "quiver"
	case MethodGeoJSON:
		return "geojson"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

const dataURIPrefix = "data:image/png;base64,"

// Artifact is the rendered output for one time step. Raster and quiver
// artifacts carry a self-contained PNG data URI; geojson artifacts carry a
// MultiLineString geometry in native lon/lat coordinates.
type Artifact struct {
	Method   Method
	ImageURI string
	Geometry *geojson.Geometry
}

// Image decodes the artifact's PNG payload. It fails for geometry
// artifacts.
func (a *Artifact) Image() (image.Image, error) {
	if a.Method == MethodGeoJSON {
		return nil, fmt.Errorf("artifact %s carries geometry, not an image", a.Method)
	}
	raw, ok := strings.CutPrefix(a.ImageURI, dataURIPrefix)
	if !ok {
		return nil, fmt.Errorf("artifact payload is not a PNG data URI")
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode artifact payload: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode artifact image: %w", err)
	}
	return img, nil
}

// encodeDataURI encodes an image as an embeddable base64 PNG data URI.
func encodeDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode frame image: %w", err)
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// blankImage is the well-defined artifact payload for degenerate inputs: a
// single transparent pixel.
func blankImage() image.Image {
	return image.NewNRGBA(image.Rect(0, 0, 1, 1))
}
