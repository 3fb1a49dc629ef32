// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package compat

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/tomtom215/outfitter/internal/siamese"
)

// Channel normalisation constants.
var (
	channelMean = [3]float32{0.485, 0.456, 0.406}
	channelStd  = [3]float32{0.229, 0.224, 0.225}
)

// ErrEmptyImage is returned for a zero-length payload.
var ErrEmptyImage = errors.New("empty image payload")

// ImagePreprocessingError scopes a decode or resize failure to one image.
type ImagePreprocessingError struct {
	Side  string
	Index int
	Err   error
}

func (e *ImagePreprocessingError) Error() string {
	return fmt.Sprintf("preprocess %s image %d: %v", e.Side, e.Index, e.Err)
}

func (e *ImagePreprocessingError) Unwrap() error { return e.Err }

// Preprocessor turns encoded images into normalised [3, S, S] tensors.
type Preprocessor struct {
	Size int
}

// Tensor decodes data and returns the model input tensor.
func (p Preprocessor) Tensor(data []byte) (*siamese.Tensor, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return p.FromImage(src), nil
}

// FromImage resizes img and converts it to a CHW tensor. Alpha is dropped
// before scaling, so translucent pixels keep their straight RGB values.
func (p Preprocessor) FromImage(img image.Image) *siamese.Tensor {
	s := p.Size
	dst := image.NewRGBA(image.Rect(0, 0, s, s))
	draw.BiLinear.Scale(dst, dst.Bounds(), dropAlpha(img), img.Bounds(), draw.Src, nil)

	t := siamese.NewTensor(3, s, s)
	plane := s * s
	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			off := dst.PixOffset(x, y)
			i := y*s + x
			for c := 0; c < 3; c++ {
				v := float32(dst.Pix[off+c]) / 255
				t.Data[c*plane+i] = (v - channelMean[c]) / channelStd[c]
			}
		}
	}
	return t
}

// dropAlpha returns img with every pixel made opaque at its unpremultiplied
// colour. Opaque images are returned unchanged.
func dropAlpha(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			i := out.PixOffset(x, y)
			out.Pix[i+0] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = 0xff
		}
	}
	return out
}
