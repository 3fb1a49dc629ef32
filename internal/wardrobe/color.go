// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package wardrobe

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	// Decoders for uploaded photos.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	// thumbnailSide bounds the image before colour counting.
	thumbnailSide = 300

	// Pixels brighter than nearWhite or darker than nearBlack on every
	// channel are treated as background.
	nearWhite = 240
	nearBlack = 15

	// quantShift keeps the top four bits of each channel, giving 4096 bins.
	quantShift = 4
)

// Image errors.
var (
	ErrNoPixels         = errors.New("image has no pixels")
	ErrUndecodableImage = errors.New("undecodable image")
)

// DecodeImage decodes any registered image format.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}
	return img, nil
}

// DominantColor returns the average colour of the most populated colour bin.
// Near-white and near-black pixels are ignored unless nothing else remains.
func DominantColor(img image.Image) (color.RGBA, error) {
	b := img.Bounds()
	if b.Empty() {
		return color.RGBA{}, ErrNoPixels
	}
	img = thumbnail(img)

	type bin struct {
		n       int
		r, g, b int
	}
	const bins = 1 << (3 * (8 - quantShift))
	fg, all := make([]bin, bins), make([]bin, bins)

	b = img.Bounds()
	fgCount := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			r, g, bl := int(c.R), int(c.G), int(c.B)
			idx := (r>>quantShift)<<(2*(8-quantShift)) | (g>>quantShift)<<(8-quantShift) | bl>>quantShift

			all[idx].n++
			all[idx].r += r
			all[idx].g += g
			all[idx].b += bl

			if isBackground(r, g, bl) {
				continue
			}
			fgCount++
			fg[idx].n++
			fg[idx].r += r
			fg[idx].g += g
			fg[idx].b += bl
		}
	}

	counted := fg
	if fgCount == 0 {
		counted = all
	}
	best := 0
	for i := range counted {
		if counted[i].n > counted[best].n {
			best = i
		}
	}
	top := counted[best]
	return color.RGBA{
		R: uint8(top.r / top.n),
		G: uint8(top.g / top.n),
		B: uint8(top.b / top.n),
		A: 0xff,
	}, nil
}

func isBackground(r, g, b int) bool {
	return (r > nearWhite && g > nearWhite && b > nearWhite) ||
		(r < nearBlack && g < nearBlack && b < nearBlack)
}

func thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= thumbnailSide && h <= thumbnailSide {
		return img
	}
	if w >= h {
		h = max(1, h*thumbnailSide/w)
		w = thumbnailSide
	} else {
		w = max(1, w*thumbnailSide/h)
		h = thumbnailSide
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// HexColor formats c as #rrggbb.
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
