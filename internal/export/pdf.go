// Package export writes canvas snapshots to PNG or PDF.
//
// Snapshots are raster only: the surface pixels flattened onto the canvas
// background, exactly as shown on screen.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// FormatFor picks the format from a file name extension, PNG by default.
func FormatFor(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return FormatPDF
	}
	return FormatPNG
}

// Flatten composites img over an opaque bg, filling erased (transparent)
// pixels with the background.
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}

// Write encodes img in format f.
func Write(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPDF:
		return WritePDF(w, img)
	case FormatPNG:
		return png.Encode(w, img)
	}
	return fmt.Errorf("export: unknown format %q", f)
}

// WritePDF writes a one-page PDF sized to img (1px = 1pt) holding img.
func WritePDF(w io.Writer, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("export: encode page image: %w", err)
	}

	b := img.Bounds()
	wd, ht := float64(b.Dx()), float64(b.Dy())
	// portrait keeps Wd/Ht as given; gofpdf swaps them for landscape
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("canvas", opts, &buf)
	p.ImageOptions("canvas", 0, 0, wd, ht, false, opts, 0, "")
	if err := p.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}
