package asset

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"sync"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeRGBA decodes any registered image format into tightly packed RGBA.
func DecodeRGBA(data []byte) (*image.RGBA, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("asset: decode image: %w", err)
	}
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba, nil
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("asset: decode %s image: empty", format)
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst, nil
}

// Image reads and decodes name from s.
func (s *Source) Image(name string) (*image.RGBA, error) {
	data, err := s.ReadFile(name)
	if err != nil {
		return nil, err
	}
	img, err := DecodeRGBA(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, name)
	}
	return img, nil
}

// Resize scales img to w×h with bilinear filtering.
func Resize(img *image.RGBA, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

var placeholder = sync.OnceValue(func() []byte {
	const size, cell = 64, 8
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	light := color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
	dark := color.RGBA{R: 0x50, G: 0x50, B: 0x58, A: 0xff}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, light)
			} else {
				img.SetRGBA(x, y, dark)
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
})
