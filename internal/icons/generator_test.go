package icons

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func opaqueSource(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	return img
}

func writeImage(t *testing.T, path string, encode func(f *os.File) error) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, encode(f))
	require.NoError(t, f.Close())
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	writeImage(t, path, func(f *os.File) error { return png.Encode(f, img) })
}

func requireIcon(t *testing.T, path string, size int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err, path)
	assert.Equal(t, size, cfg.Width, path)
	assert.Equal(t, size, cfg.Height, path)
	assert.Equal(t, color.NRGBAModel, cfg.ColorModel, "%s should carry an alpha channel", path)
}

type recorder struct {
	processing []Result
	generated  []Icon
}

func (r *recorder) Processing(res Result) { r.processing = append(r.processing, res) }
func (r *recorder) Generated(icon Icon)   { r.generated = append(r.generated, icon) }

func TestGenerateWritesEverySize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "finish-first.png")
	writePNG(t, src, opaqueSource(512, 512))

	rec := &recorder{}
	res, err := Generate(Options{Source: src, OutDir: dir, Progress: rec})
	require.NoError(t, err)

	assert.Equal(t, "png", res.Format)
	assert.Equal(t, 512, res.Width)
	assert.Equal(t, 512, res.Height)
	require.Len(t, res.Icons, len(Sizes))
	for i, size := range Sizes {
		want := filepath.Join(dir, FileName(size))
		assert.Equal(t, Icon{Size: size, Path: want}, res.Icons[i])
		requireIcon(t, want, size)
	}

	require.Len(t, rec.processing, 1)
	assert.Equal(t, src, rec.processing[0].Source)
	assert.Equal(t, res.Icons, rec.generated)
}

func TestGenerateNonRGBASources(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 300, 200))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i)
	}

	tests := []struct {
		name   string
		file   string
		format string
		encode func(f *os.File) error
	}{
		{name: "gray png", file: "gray.png", format: "png", encode: func(f *os.File) error { return png.Encode(f, gray) }},
		{name: "jpeg", file: "photo.jpg", format: "jpeg", encode: func(f *os.File) error { return jpeg.Encode(f, opaqueSource(64, 64), nil) }},
		{name: "bmp", file: "logo.bmp", format: "bmp", encode: func(f *os.File) error { return bmp.Encode(f, opaqueSource(40, 90)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, tt.file)
			writeImage(t, src, tt.encode)

			res, err := Generate(Options{Source: src, OutDir: dir})
			require.NoError(t, err)
			assert.Equal(t, tt.format, res.Format)
			for _, size := range Sizes {
				requireIcon(t, filepath.Join(dir, FileName(size)), size)
			}
		})
	}
}

func TestGenerateMissingSource(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	src := filepath.Join(dir, "finish-first.png")

	res, err := Generate(Options{Source: src, OutDir: out})
	require.ErrorIs(t, err, ErrSourceNotFound)
	assert.Contains(t, err.Error(), src)
	assert.Empty(t, res.Icons)
	assert.NoDirExists(t, out)
}

func TestGenerateIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "source.png")
	writePNG(t, src, opaqueSource(200, 150))

	_, err := Generate(Options{Source: src, OutDir: dir})
	require.NoError(t, err)
	first := map[int][]byte{}
	for _, size := range Sizes {
		data, err := os.ReadFile(filepath.Join(dir, FileName(size)))
		require.NoError(t, err)
		first[size] = data
	}

	_, err = Generate(Options{Source: src, OutDir: dir})
	require.NoError(t, err)
	for _, size := range Sizes {
		data, err := os.ReadFile(filepath.Join(dir, FileName(size)))
		require.NoError(t, err)
		assert.Equal(t, first[size], data, "icon%d changed between runs", size)
	}
}

func TestGenerateCorruptSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(src, []byte("definitely not an image"), 0644))

	res, err := Generate(Options{Source: src, OutDir: dir})
	var perr *ProcessingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageDecode, perr.Stage)
	assert.ErrorIs(t, err, image.ErrFormat)
	assert.Empty(t, res.Icons)
	assert.NoFileExists(t, filepath.Join(dir, FileName(16)))
}

func TestGenerateUnwritableOutDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "source.png")
	writePNG(t, src, opaqueSource(32, 32))
	notADir := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(notADir, nil, 0644))

	res, err := Generate(Options{Source: src, OutDir: notADir})
	var perr *ProcessingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageWrite, perr.Stage)
	assert.Empty(t, res.Icons)
}

func TestGenerateKeepsIconsWrittenBeforeFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "source.png")
	writePNG(t, src, opaqueSource(64, 64))
	// A directory where icon48.png should go makes the third write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, FileName(48)), 0755))

	res, err := Generate(Options{Source: src, OutDir: dir})
	var perr *ProcessingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageWrite, perr.Stage)
	assert.Equal(t, filepath.Join(dir, FileName(48)), perr.Path)

	require.Len(t, res.Icons, 2)
	requireIcon(t, filepath.Join(dir, FileName(16)), 16)
	requireIcon(t, filepath.Join(dir, FileName(32)), 32)
	assert.NoFileExists(t, filepath.Join(dir, FileName(128)))
}

func TestGeneratePreservesTransparency(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clear.png")
	writePNG(t, src, image.NewNRGBA(image.Rect(0, 0, 100, 100)))

	_, err := Generate(Options{Source: src, OutDir: dir})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, FileName(32)))
	require.NoError(t, err)
	defer f.Close()
	icon, err := png.Decode(f)
	require.NoError(t, err)
	_, _, _, a := icon.At(10, 10).RGBA()
	assert.Zero(t, a)
}

func TestGenerateDefaultsOutDirToWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writePNG(t, "finish-first.png", opaqueSource(128, 128))

	res, err := Generate(Options{Source: "finish-first.png"})
	require.NoError(t, err)
	require.Len(t, res.Icons, len(Sizes))
	for _, size := range Sizes {
		requireIcon(t, filepath.Join(dir, FileName(size)), size)
	}
}

func decodeIcon(t *testing.T, path string) *image.NRGBA {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	nrgba, ok := img.(*image.NRGBA)
	require.True(t, ok, "%s decoded as %T", path, img)
	return nrgba
}

func TestGenerateTransparentLogoKeepsEdgeColour(t *testing.T) {
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff}
	for _, f := range []Filter{Lanczos, CatmullRom, Bilinear, Nearest} {
		t.Run(string(f), func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "finish-first.png")
			writePNG(t, src, logoSource(512, white))

			_, err := Generate(Options{Source: src, OutDir: dir, Filter: f})
			require.NoError(t, err)
			for _, size := range Sizes {
				requireLogoColour(t, decodeIcon(t, filepath.Join(dir, FileName(size))), white, true)
			}
		})
	}
}
