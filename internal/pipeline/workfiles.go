package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	AudioExt   = ".mp3"
	CaptionExt = ".txt"
)

// FileBase is the shared name of a unit's working files: {base}-frase-{seq}.
func FileBase(baseName string, seq int) string {
	return fmt.Sprintf("%s-frase-%d", baseName, seq)
}

// WorkingPaths returns the local audio and caption paths for a unit.
func WorkingPaths(dir, baseName string, seq int) (audio, caption string) {
	name := FileBase(baseName, seq)
	return filepath.Join(dir, name+AudioExt), filepath.Join(dir, name+CaptionExt)
}

const relocateSuffix = ".relocating"

// Relocate renames working file pairs after the units were renumbered so the
// files keep following their content. moves maps an old seq to its new seq;
// a new seq of 0 removes the pair. Missing files are skipped. Pairs are first
// parked under temporary names so swaps never overwrite each other.
func Relocate(dir, baseName string, moves map[int]int) error {
	var errs []error
	parked := make(map[int][2]string)

	for from, to := range moves {
		audio, caption := WorkingPaths(dir, baseName, from)
		if to == 0 {
			errs = append(errs, removeIfExists(audio), removeIfExists(caption))
			continue
		}
		errs = append(errs,
			renameIfExists(audio, audio+relocateSuffix),
			renameIfExists(caption, caption+relocateSuffix))
		parked[to] = [2]string{audio + relocateSuffix, caption + relocateSuffix}
	}

	for to, tmp := range parked {
		audio, caption := WorkingPaths(dir, baseName, to)
		errs = append(errs, renameIfExists(tmp[0], audio), renameIfExists(tmp[1], caption))
	}

	return errors.Join(errs...)
}

func renameIfExists(from, to string) error {
	if err := os.Rename(from, to); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("rename %s: %w", from, err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
