// Package paging slices a full-height capture of a rendered page into
// fixed-size page images.
package paging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
)

// DefaultDPI matches a capture taken at 96 CSS pixels per inch with a device
// scale factor of 2.
const DefaultDPI = 192

const mmPerInch = 25.4

// Size is a physical page size in millimetres.
type Size struct {
	WidthMM  float64
	HeightMM float64
}

// Common page sizes, portrait.
var (
	A4     = Size{WidthMM: 210, HeightMM: 297}
	Letter = Size{WidthMM: 215.9, HeightMM: 279.4}
	Legal  = Size{WidthMM: 215.9, HeightMM: 355.6}
)

// Landscape returns the size with its longer side horizontal.
func (s Size) Landscape() Size {
	if s.WidthMM < s.HeightMM {
		return Size{WidthMM: s.HeightMM, HeightMM: s.WidthMM}
	}
	return s
}

// Pixels returns the page dimensions at the given resolution.
func (s Size) Pixels(dpi float64) (width, height int) {
	width = int(math.Round(s.WidthMM / mmPerInch * dpi))
	height = int(math.Round(s.HeightMM / mmPerInch * dpi))
	return max(width, 1), max(height, 1)
}

// Paginate slices img into pages at DefaultDPI.
func Paginate(img image.Image, page Size) []image.Image {
	return PaginateAt(img, page, DefaultDPI)
}

// PaginateAt scales img to the page width at dpi, then cuts it into
// page-height bands from the top. The last band is padded with white. An
// empty capture still yields one blank page.
func PaginateAt(img image.Image, page Size, dpi float64) []image.Image {
	width, height := page.Pixels(dpi)

	scaled := scaleToWidth(img, width)
	total := scaled.Bounds().Dy()

	count := max((total+height-1)/height, 1)
	pages := make([]image.Image, 0, count)
	for i := 0; i < count; i++ {
		dst := blankPage(width, height)
		top := scaled.Bounds().Min.Y + i*height
		band := image.Rect(0, 0, width, min(height, total-i*height))
		if !band.Empty() {
			draw.Draw(dst, band, scaled, image.Pt(scaled.Bounds().Min.X, top), draw.Src)
		}
		pages = append(pages, dst)
	}
	return pages
}

func scaleToWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	if b.Empty() {
		return image.NewRGBA(image.Rect(0, 0, width, 0))
	}
	if b.Dx() == width {
		return img
	}
	height := max(int(math.Round(float64(b.Dy())*float64(width)/float64(b.Dx()))), 1)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func blankPage(width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return dst
}

// EncodePNG encodes every page as PNG.
func EncodePNG(pages []image.Image) ([][]byte, error) {
	out := make([][]byte, 0, len(pages))
	for i, p := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, p); err != nil {
			return nil, fmt.Errorf("encoding page %d: %w", i+1, err)
		}
		out = append(out, buf.Bytes())
	}
	return out, nil
}
