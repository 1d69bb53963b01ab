package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archiver/v3"
)

// ErrUnsupported is returned for a bundle name whose extension is not a known archive type.
var ErrUnsupported = errors.New("unsupported archive type")

// ErrMismatch is returned by Verify when a bundle does not hold the expected files.
var ErrMismatch = errors.New("bundle does not match files")

// Extensions lists the bundle extensions Bundle accepts.
var Extensions = []string{".zip", ".tar.gz", ".tgz", ".tar"}

// Supported reports whether dest has an archive extension Bundle can write.
func Supported(dest string) bool {
	lower := strings.ToLower(dest)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Bundle packs files into the archive dest; the archive type follows the extension of dest.
// An existing dest is replaced and its directory is created if needed.
func Bundle(files []string, dest string) error {
	if len(files) == 0 {
		return fmt.Errorf("bundle %s: no files", dest)
	}
	if !Supported(dest) {
		return fmt.Errorf("bundle %s: %w", dest, ErrUnsupported)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("bundle: %w", err)
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("bundle: %w", err)
	}
	if err := archiver.Archive(files, dest); err != nil {
		return fmt.Errorf("bundle %s: %w", dest, err)
	}
	return nil
}

// Unpack extracts src into destDir and returns the extracted file paths with the given
// extensions (all files when exts is empty), sorted by path.
func Unpack(src, destDir string, exts ...string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("unpack: %w", err)
	}
	if err := archiver.Unarchive(src, destDir); err != nil {
		return nil, fmt.Errorf("unpack %s: %w", src, err)
	}
	return FindFiles(destDir, exts...)
}

// FindFiles returns the paths of regular files under dir whose extension is one of exts,
// case-insensitive. With no exts every file matches.
func FindFiles(dir string, exts ...string) (paths []string, err error) {
	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		want[strings.ToLower(e)] = true
	}
	err = filepath.Walk(filepath.Clean(dir), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if len(want) > 0 && !want[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Verify unpacks bundle into a temporary directory and checks that it holds a file with
// the base name and size of every entry in files.
func Verify(bundle string, files []string) error {
	tmp, err := os.MkdirTemp("", "geodome-verify-")
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	defer os.RemoveAll(tmp)

	unpacked, err := Unpack(bundle, tmp)
	if err != nil {
		return err
	}
	sizes := make(map[string]int64, len(unpacked))
	for _, p := range unpacked {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		sizes[filepath.Base(p)] = info.Size()
	}
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		got, ok := sizes[filepath.Base(f)]
		if !ok {
			return fmt.Errorf("%s missing from %s: %w", filepath.Base(f), bundle, ErrMismatch)
		}
		if got != info.Size() {
			return fmt.Errorf("%s is %d bytes in %s, want %d: %w", filepath.Base(f), got, bundle, info.Size(), ErrMismatch)
		}
	}
	return nil
}
