package icons

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// Normalize returns img unchanged when it already carries an alpha channel
// (RGBA or NRGBA, 8 or 16 bit). Anything else is copied into an
// *image.NRGBA, so colour models without alpha become fully opaque.
func Normalize(img image.Image) image.Image {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// toNRGBA converts a resampled image to the 8-bit non-premultiplied form
// PNG stores. Resampling kernels with negative lobes can leave premultiplied
// colour above alpha; it is clamped to alpha before dividing.
func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			c := color.RGBA64{
				R: uint16(min(r, a)),
				G: uint16(min(g, a)),
				B: uint16(min(bl, a)),
				A: uint16(a),
			}
			dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, color.NRGBAModel.Convert(c).(color.NRGBA))
		}
	}
	return dst
}

// alphaPNG makes image/png write colour type RGBA even for fully opaque
// images, which it would otherwise store as plain RGB.
type alphaPNG struct {
	*image.NRGBA
}

func (alphaPNG) Opaque() bool { return false }

var encoder = png.Encoder{CompressionLevel: png.BestCompression}

func encodePNG(w io.Writer, img *image.NRGBA) error {
	return encoder.Encode(w, alphaPNG{img})
}

func resizeAndSave(src image.Image, filter Filter, size int, destPath string) error {
	dst, err := filter.Resize(src, size)
	if err != nil {
		return &ProcessingError{Stage: StageResize, Path: destPath, Err: err}
	}

	outFile, err := os.Create(destPath)
	if err != nil {
		return &ProcessingError{Stage: StageWrite, Path: destPath, Err: err}
	}
	if err := encodePNG(outFile, dst); err != nil {
		outFile.Close()
		return &ProcessingError{Stage: StageEncode, Path: destPath, Err: err}
	}
	if err := outFile.Close(); err != nil {
		return &ProcessingError{Stage: StageWrite, Path: destPath, Err: err}
	}
	return nil
}
