package imagestats

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"math"
	"os"

	"bidr-analyzer/internal/mathutil"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// FormatError reports an input image that is missing, undecodable, empty
// or not 3-channel.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "imagestats: "
	if e.Path != "" {
		msg += e.Path + ": "
	}
	msg += e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// Image is an H×W×3 float image stored row-major, one Vec3 per pixel.
type Image struct {
	Width  int
	Height int
	Pix    []mathutil.Vec3
}

// NewImage allocates a zeroed w×h image.
func NewImage(w, h int) *Image {
	return &Image{Width: w, Height: h, Pix: make([]mathutil.Vec3, w*h)}
}

func (im *Image) At(x, y int) mathutil.Vec3 {
	return im.Pix[y*im.Width+x]
}

func (im *Image) Set(x, y int, v mathutil.Vec3) {
	im.Pix[y*im.Width+x] = v
}

// Validate rejects empty images and mismatched buffers.
func (im *Image) Validate() error {
	if im == nil || im.Width <= 0 || im.Height <= 0 {
		return &FormatError{Reason: "image is empty"}
	}
	if len(im.Pix) != im.Width*im.Height {
		return &FormatError{Reason: fmt.Sprintf("pixel buffer has %d entries, want %d", len(im.Pix), im.Width*im.Height)}
	}
	return nil
}

// FromChannels builds an image from an interleaved h×w×c buffer. Only c == 3
// is accepted.
func FromChannels(h, w, c int, data []float64) (*Image, error) {
	if c != 3 {
		return nil, &FormatError{Reason: fmt.Sprintf("expected 3 channels, got %d", c)}
	}
	if h <= 0 || w <= 0 {
		return nil, &FormatError{Reason: "image is empty"}
	}
	if len(data) != h*w*c {
		return nil, &FormatError{Reason: fmt.Sprintf("buffer has %d values, want %d", len(data), h*w*c)}
	}
	im := NewImage(w, h)
	for i := range im.Pix {
		im.Pix[i] = mathutil.Vec3{data[3*i], data[3*i+1], data[3*i+2]}
	}
	return im, nil
}

// FromImage converts a decoded image to floats in [0, 1]. Single-channel
// images are rejected.
func FromImage(src image.Image) (*Image, error) {
	switch src.(type) {
	case *image.Gray, *image.Gray16, *image.Alpha, *image.Alpha16:
		return nil, &FormatError{Reason: fmt.Sprintf("expected 3-channel colour image, got %T", src)}
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, &FormatError{Reason: "image is empty"}
	}
	im := NewImage(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBA64Model.Convert(src.At(x, y)).(color.NRGBA64)
			im.Set(x-b.Min.X, y-b.Min.Y, mathutil.Vec3{
				float64(c.R) / 0xffff,
				float64(c.G) / 0xffff,
				float64(c.B) / 0xffff,
			})
		}
	}
	return im, nil
}

// Load decodes the image at path. The file is closed on every return path.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		reason := "cannot open"
		if errors.Is(err, fs.ErrNotExist) {
			reason = "file not found"
		}
		return nil, &FormatError{Path: path, Reason: reason, Err: err}
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, &FormatError{Path: path, Reason: "decode failed", Err: err}
	}
	im, err := FromImage(src)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	return im, nil
}

// ToNRGBA quantizes the image to 8 bits per channel, clamping to [0, 1].
func (im *Image) ToNRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, im.Width, im.Height))
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			v := im.At(x, y)
			i := dst.PixOffset(x, y)
			dst.Pix[i] = quantize(v[0])
			dst.Pix[i+1] = quantize(v[1])
			dst.Pix[i+2] = quantize(v[2])
			dst.Pix[i+3] = 255
		}
	}
	return dst
}

func quantize(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
