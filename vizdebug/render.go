package vizdebug

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
)

// RasterizePNG parses an SVG document and rasterizes it to a w x h PNG,
// mirroring the oksvg/rasterx pipeline the teacher reaches for when a
// rasterizer (rather than tdewolff/canvas, used below for PDF) is enough.
func RasterizePNG(svg string, w, h int) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPDF parses an SVG document with tdewolff/canvas and writes it out as
// a w x h (in points) PDF, exercising the canvas/fpdf rendering stack the
// PNG path above doesn't touch.
func RenderPDF(svg string, w, h int) ([]byte, error) {
	c, err := canvas.ParseSVG(strings.NewReader(svg))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, float64(w), float64(h), nil)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
