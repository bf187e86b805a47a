// Package export writes emulator framebuffers to still-image files.
package export

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Format names a still-image encoding.
type Format string

const (
	FormatBMP Format = "bmp"
	FormatPPM Format = "ppm"
)

// ParseFormat resolves a format name, ignoring case.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatBMP, FormatPPM:
		return f, nil
	}
	return "", fmt.Errorf("unknown image format %q (use bmp or ppm)", name)
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// FromRGBA wraps an RGBA framebuffer as an image without copying. The
// returned image aliases pix, so it must be encoded before the emulator
// renders the next frame.
func FromRGBA(pix []byte, stride, w, h int) *image.RGBA {
	if n := stride * h; n < len(pix) {
		pix = pix[:n]
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: stride,
		Rect:   image.Rect(0, 0, w, h),
	}
}

// Scale returns img enlarged by an integer factor with nearest-neighbour
// sampling so tile edges stay sharp. A factor of 1 or less returns img.
func Scale(img *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Write encodes img in the given format.
func Write(w io.Writer, img *image.RGBA, f Format) error {
	switch f {
	case FormatBMP:
		return WriteBMP(w, img)
	case FormatPPM:
		return WritePPM(w, img)
	}
	return fmt.Errorf("unknown image format %q", f)
}

// WriteBMP encodes img as a Windows bitmap.
func WriteBMP(w io.Writer, img image.Image) error {
	if err := bmp.Encode(w, img); err != nil {
		return fmt.Errorf("encode bmp: %w", err)
	}
	return nil
}

// WritePPM encodes img as a binary (P6) portable pixmap. Alpha is dropped.
func WritePPM(w io.Writer, img *image.RGBA) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
		return fmt.Errorf("write ppm header: %w", err)
	}

	row := make([]byte, b.Dx()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			copy(row[x*3:x*3+3], src[x*4:x*4+3])
		}
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("write ppm row %d: %w", y, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ppm: %w", err)
	}
	return nil
}
