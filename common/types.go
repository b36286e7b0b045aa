// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// This is primarily used in the BindGroupProvider to stage sampler data before creating the GPU sampler and bind group.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
}

// DefaultSampler returns the linear, clamp-to-edge sampler used for slide textures.
// Clamping keeps the distortion from wrapping pixels in from the opposite edge.
func DefaultSampler() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeLinear,
		LodMinClamp:  0,
		LodMaxClamp:  32,
	}
}

// Coalesce returns the first argument that is not T's zero value. Sampler staging fields and
// manifest window settings use it to fall back to defaults.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// ImageSource is a slide image that still has to be decoded.
// Either Data (raw encoded bytes) or Path (a file on disk) must be set.
type ImageSource struct {
	// Path is the image file on disk (ignored when Data is set).
	Path string

	// Data contains raw encoded image bytes (PNG, JPEG, WebP or BMP).
	Data []byte

	// MaxDimension caps the decoded width and height. Larger images are downscaled
	// preserving aspect ratio. Zero means no cap.
	MaxDimension int
}

// Decode decodes the image to RGBA pixel data ready for upload.
// Images exceeding MaxDimension on either side are resampled with Catmull-Rom.
//
// Returns:
//   - TextureStagingData: the RGBA pixels and their dimensions
//   - image.Point: the source image size before any downscale
//   - error: error if reading or decoding fails
func (s ImageSource) Decode() (TextureStagingData, image.Point, error) {
	var img image.Image
	var err error

	switch {
	case len(s.Data) > 0:
		img, _, err = image.Decode(bytes.NewReader(s.Data))
		if err != nil {
			return TextureStagingData{}, image.Point{}, fmt.Errorf("failed to decode embedded image: %w", err)
		}
	case s.Path != "":
		file, fileErr := os.Open(s.Path)
		if fileErr != nil {
			return TextureStagingData{}, image.Point{}, fmt.Errorf("failed to open image file %s: %w", s.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return TextureStagingData{}, image.Point{}, fmt.Errorf("failed to decode image file %s: %w", s.Path, err)
		}
	default:
		return TextureStagingData{}, image.Point{}, fmt.Errorf("image has neither data nor path")
	}

	bounds := img.Bounds()
	original := bounds.Size()
	if original.X <= 0 || original.Y <= 0 {
		return TextureStagingData{}, original, fmt.Errorf("image %q is empty", s.Path)
	}

	target := fitWithin(original, s.MaxDimension)
	rgba := image.NewRGBA(image.Rect(0, 0, target.X, target.Y))
	if target == original {
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, bounds, draw.Src, nil)
	}

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(target.X),
		Height: uint32(target.Y),
	}, original, nil
}

// fitWithin shrinks size so that neither side exceeds limit, keeping the aspect ratio.
func fitWithin(size image.Point, limit int) image.Point {
	if limit <= 0 || (size.X <= limit && size.Y <= limit) {
		return size
	}
	if size.X >= size.Y {
		h := max(1, size.Y*limit/size.X)
		return image.Point{X: limit, Y: h}
	}
	w := max(1, size.X*limit/size.Y)
	return image.Point{X: w, Y: limit}
}
