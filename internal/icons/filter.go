package icons

import (
	"fmt"
	"image"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Filter selects the resampling kernel used to scale the source.
type Filter string

const (
	Lanczos    Filter = "lanczos"
	CatmullRom Filter = "catmullrom"
	Bilinear   Filter = "bilinear"
	Nearest    Filter = "nearest"
)

// FilterNames lists the accepted filter names, default first.
var FilterNames = []string{string(Lanczos), string(CatmullRom), string(Bilinear), string(Nearest)}

func ParseFilter(name string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return Lanczos, nil
	case Lanczos, CatmullRom, Bilinear, Nearest:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q (want one of %s)", name, strings.Join(FilterNames, ", "))
	}
}

// Resize scales src to a size x size square. The zero Filter is Lanczos.
func (f Filter) Resize(src image.Image, size int) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid icon size %d", size)
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("source image is empty")
	}

	switch f {
	case Lanczos, "":
		return toNRGBA(resize.Resize(uint(size), uint(size), src, resize.Lanczos3)), nil
	}

	scaler, err := f.scaler()
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	scaler.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
	return toNRGBA(dst), nil
}

func (f Filter) scaler() (draw.Scaler, error) {
	switch f {
	case CatmullRom:
		return draw.CatmullRom, nil
	case Bilinear:
		return draw.ApproxBiLinear, nil
	case Nearest:
		return draw.NearestNeighbor, nil
	}
	return nil, fmt.Errorf("unknown filter %q", string(f))
}
