package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/driftsound/retag/core"
	"github.com/driftsound/retag/core/store"
)

// EmbedCover reads the image at imagePath and stages it as the single
// front cover of f. The image format is taken from the file extension,
// anything that is not .png is treated as JPEG. Containers without
// editable artwork return core.ErrUnsupportedOperation.
func EmbedCover(f store.File, imagePath string) error {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read cover image: %w", err)
	}
	art := core.CoverFromExt(filepath.Ext(imagePath), data)
	return f.SetFrontCover(art)
}

// RemoveCovers stages removal of every front cover and reports how
// many were present.
func RemoveCovers(f store.File) int {
	return f.RemoveFrontCovers()
}
