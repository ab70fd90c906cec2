package goslingshot

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	_ "golang.org/x/image/webp" // register decoder
)

// ImageInfo describes a decoded image header.
type ImageInfo struct {
	Format Format
	Width  int
	Height int
}

// verifyImage checks that data is a non-empty image of format want.
func verifyImage(data []byte, want Format) (ImageInfo, error) {
	if len(data) == 0 {
		return ImageInfo{}, fmt.Errorf("%w: empty output", ErrInvalidImage)
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	got, err := ParseFormat(name)
	if err != nil || got != want {
		return ImageInfo{}, fmt.Errorf("%w: got %s, want %s", ErrInvalidImage, name, want)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return ImageInfo{}, fmt.Errorf("%w: zero-sized %dx%d", ErrInvalidImage, cfg.Width, cfg.Height)
	}

	return ImageInfo{Format: got, Width: cfg.Width, Height: cfg.Height}, nil
}
