package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"

	"gridviz/internal/grid"
	"gridviz/internal/reproject"
)

// QuiverOptions controls vector-glyph rendering.
type QuiverOptions struct {
	// Autoscale scales each glyph by magnitude; otherwise all glyphs have
	// unit length.
	Autoscale bool
	// Color colors glyphs by magnitude using the palette; otherwise glyphs
	// are black.
	Color bool
	// Scale multiplies the glyph length relative to the cell size.
	Scale float64
	// Palette is used when Color is set.
	Palette Palette
	// CellSize is the edge length in pixels of one reprojected sample cell.
	CellSize int
}

// DefaultQuiverOptions returns the default glyph settings.
func DefaultQuiverOptions() QuiverOptions {
	return QuiverOptions{
		Autoscale: true,
		Scale:     1,
		Palette:   Viridis,
		CellSize:  12,
	}
}

// maxQuiverSide caps the rendered glyph image edge length.
const maxQuiverSide = 4096

// Quiver reprojects both vector components into web mercator and rasterizes
// the field as direction/magnitude glyphs on a transparent background.
// Degenerate inputs yield a blank artifact.
func Quiver(u, v grid.Slice, transform grid.Transform, bounds grid.Bounds, opts QuiverOptions) (*Artifact, error) {
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultQuiverOptions().CellSize
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}

	dst := reproject.DestinationFor(bounds, u.Cols(), u.Rows())
	wu := reproject.Resample(u, transform, dst)
	wv := reproject.Resample(v, transform, dst)

	if wu.Empty() || wv.Empty() {
		uri, err := encodeDataURI(blankImage())
		if err != nil {
			return nil, err
		}
		return &Artifact{Method: MethodQuiver, ImageURI: uri}, nil
	}

	cell := opts.CellSize
	for cell > 1 && (wu.Cols()*cell > maxQuiverSide || wu.Rows()*cell > maxQuiverSide) {
		cell--
	}

	maxMag := 0.0
	for r := 0; r < wu.Rows(); r++ {
		for c := 0; c < wu.Cols(); c++ {
			mag := math.Hypot(wu.At(r, c), wv.At(r, c))
			if !math.IsNaN(mag) && mag > maxMag {
				maxMag = mag
			}
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, wu.Cols()*cell, wu.Rows()*cell))
	if maxMag == 0 {
		uri, err := encodeDataURI(img)
		if err != nil {
			return nil, err
		}
		return &Artifact{Method: MethodQuiver, ImageURI: uri}, nil
	}

	strokeWidth := float64(cell) / 8
	if strokeWidth < 1 {
		strokeWidth = 1
	}
	for r := 0; r < wu.Rows(); r++ {
		for c := 0; c < wu.Cols(); c++ {
			uu, vv := wu.At(r, c), wv.At(r, c)
			mag := math.Hypot(uu, vv)
			if math.IsNaN(mag) || mag == 0 {
				continue
			}

			length := float64(cell) * opts.Scale
			if opts.Autoscale {
				length *= mag / maxMag
			}

			glyphColor := color.NRGBA{A: 0xff}
			if opts.Color {
				glyphColor = opts.Palette.Lookup(mag / maxMag)
			}

			// Image rows run south, so northward v points up the image.
			angle := math.Atan2(vv, uu)
			cx := (float64(c) + 0.5) * float64(cell)
			cy := (float64(r) + 0.5) * float64(cell)
			dx := length / 2 * math.Cos(angle)
			dy := length / 2 * math.Sin(angle)
			tipX, tipY := cx+dx, cy-dy

			strokeLine(img, cx-dx, cy+dy, tipX, tipY, strokeWidth, glyphColor)
			for _, barb := range [2]float64{arrowBarbLeft, arrowBarbRight} {
				bx := 0.6 * length * math.Cos(angle+barb)
				by := 0.6 * length * math.Sin(angle+barb)
				strokeLine(img, tipX, tipY, tipX+bx, tipY-by, strokeWidth, glyphColor)
			}
		}
	}

	uri, err := encodeDataURI(img)
	if err != nil {
		return nil, err
	}
	return &Artifact{Method: MethodQuiver, ImageURI: uri}, nil
}

// strokeLine draws an anti-aliased line segment as a filled quad.
func strokeLine(dst *image.NRGBA, x0, y0, x1, y1, width float64, c color.NRGBA) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx := -dy / length * width / 2
	ny := dx / length * width / 2

	xs := [4]float64{x0 + nx, x1 + nx, x1 - nx, x0 - nx}
	ys := [4]float64{y0 + ny, y1 + ny, y1 - ny, y0 - ny}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 1; i < 4; i++ {
		minX = math.Min(minX, xs[i])
		maxX = math.Max(maxX, xs[i])
		minY = math.Min(minY, ys[i])
		maxY = math.Max(maxY, ys[i])
	}

	ox := int(math.Floor(minX))
	oy := int(math.Floor(minY))
	w := int(math.Ceil(maxX)) - ox + 1
	h := int(math.Ceil(maxY)) - oy + 1
	if w <= 0 || h <= 0 {
		return
	}

	ras := vector.NewRasterizer(w, h)
	ras.MoveTo(float32(xs[0]-float64(ox)), float32(ys[0]-float64(oy)))
	for i := 1; i < 4; i++ {
		ras.LineTo(float32(xs[i]-float64(ox)), float32(ys[i]-float64(oy)))
	}
	ras.ClosePath()
	ras.Draw(dst, image.Rect(ox, oy, ox+w, oy+h), image.NewUniform(c), image.Point{})
}
