package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cavv-dev/crocdb-db/internal/fileutil"
)

// MoveStaticFiles moves every item directly inside src into dst, replacing
// items of the same name. A missing src is not an error.
func MoveStaticFiles(src, dst string) error {
	items, err := os.ReadDir(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read static dir: %w", err)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("create static destination: %w", err)
	}
	for _, item := range items {
		from := filepath.Join(src, item.Name())
		to := filepath.Join(dst, item.Name())
		if err := os.RemoveAll(to); err != nil {
			return fmt.Errorf("replace %s: %w", to, err)
		}
		if err := fileutil.MovePath(from, to); err != nil {
			return fmt.Errorf("move %s: %w", from, err)
		}
	}
	return nil
}
