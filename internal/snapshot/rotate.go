package snapshot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Pair tracks the two generations of one snapshot dataset. Previous always
// equals what Current was at the time of the last rotation; Rotate is the
// only writer of Previous and always overwrites it whole.
type Pair struct {
	Current  string
	Previous string
}

// HasBaseline reports whether a previous generation exists. Without one the
// detectors have nothing to diff against and skip the dataset.
func (p Pair) HasBaseline() bool {
	_, err := os.Stat(p.Previous)
	return err == nil
}

// Rotate copies the current file verbatim over the previous file,
// establishing the diff window for the next scrape cycle. A missing current
// file (first run) is a no-op, not an error.
func (p Pair) Rotate() error {
	src, err := os.Open(p.Current)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("opening current snapshot %s: %w", p.Current, err)
	}
	defer src.Close()

	dst, err := os.Create(p.Previous)
	if err != nil {
		return fmt.Errorf("creating previous snapshot %s: %w", p.Previous, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("copying snapshot %s -> %s: %w", p.Current, p.Previous, err)
	}

	if err := dst.Close(); err != nil {
		return fmt.Errorf("closing previous snapshot %s: %w", p.Previous, err)
	}

	return nil
}
