// Package icons turns one source image into the fixed set of square PNG
// icons a browser-extension manifest references.
package icons

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Sizes are the icon edge lengths written on every run, in order.
var Sizes = [...]int{16, 32, 48, 128}

// FileName is the output name for an icon of the given size.
func FileName(size int) string {
	return fmt.Sprintf("icon%d.png", size)
}

type Icon struct {
	Size int
	Path string
}

type Result struct {
	Source string
	Format string
	Width  int
	Height int
	Icons  []Icon
}

// Progress observes a run. Either method may be left as a no-op.
type Progress interface {
	Processing(res Result)
	Generated(icon Icon)
}

type Options struct {
	Source   string
	OutDir   string
	Filter   Filter
	Progress Progress
}

// Generate decodes opts.Source and writes one icon per entry in Sizes.
//
// A missing source yields ErrSourceNotFound and touches nothing. Any later
// failure yields a *ProcessingError; icons written before it are left on
// disk and listed in the returned Result.
func Generate(opts Options) (Result, error) {
	res := Result{Source: opts.Source}

	if _, err := os.Stat(opts.Source); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return res, fmt.Errorf("%w: %s", ErrSourceNotFound, opts.Source)
		}
		return res, &ProcessingError{Stage: StageDecode, Path: opts.Source, Err: err}
	}

	img, format, err := decode(opts.Source)
	if err != nil {
		return res, &ProcessingError{Stage: StageDecode, Path: opts.Source, Err: err}
	}
	src := Normalize(img)
	res.Format = format
	res.Width, res.Height = src.Bounds().Dx(), src.Bounds().Dy()

	progress := opts.Progress
	if progress == nil {
		progress = nopProgress{}
	}
	progress.Processing(res)

	destDir := opts.OutDir
	if destDir == "" {
		destDir = "."
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return res, &ProcessingError{Stage: StageWrite, Path: destDir, Err: err}
	}

	for _, size := range Sizes {
		destPath := filepath.Join(destDir, FileName(size))
		if err := resizeAndSave(src, opts.Filter, size, destPath); err != nil {
			return res, err
		}
		icon := Icon{Size: size, Path: destPath}
		res.Icons = append(res.Icons, icon)
		progress.Generated(icon)
	}
	return res, nil
}

func decode(path string) (image.Image, string, error) {
	srcFile, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer srcFile.Close()

	return image.Decode(srcFile)
}

type nopProgress struct{}

func (nopProgress) Processing(Result) {}
func (nopProgress) Generated(Icon)    {}
