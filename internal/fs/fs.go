package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
)

// Exists reports whether pth can be stat'ed.
func Exists(pth string) bool {
	_, err := os.Stat(pth)
	return err == nil
}

// IsDir reports whether pth exists and is a directory.
func IsDir(pth string) bool {
	info, err := os.Stat(pth)
	return err == nil && info.IsDir()
}

// Mkdir checks if the provided path exists and creates it if it does not.
func Mkdir(pth string) error {
	if _, err := os.Stat(pth); errors.Is(err, os.ErrNotExist) {
		if err = os.MkdirAll(pth, os.ModePerm); err != nil {
			return fmt.Errorf("os.MkdirAll: %w", err)
		}
	}

	return nil
}

// CopyDir copies the tree rooted at src into dst, merging with whatever dst
// already holds. Symlinks are recreated as links and never followed.
func CopyDir(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("os.Stat: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("copy %s: not a directory", src)
	}

	return filepath.WalkDir(
		src, func(pth string, entry iofs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			rel, err := filepath.Rel(src, pth)
			if err != nil {
				return fmt.Errorf("filepath.Rel: %w", err)
			}

			target := filepath.Join(dst, rel)

			switch {
			case entry.Type()&iofs.ModeSymlink != 0:
				link, err := os.Readlink(pth)
				if err != nil {
					return fmt.Errorf("os.Readlink: %w", err)
				}

				_ = os.Remove(target)
				if err = os.Symlink(link, target); err != nil {
					return fmt.Errorf("os.Symlink: %w", err)
				}

				return nil
			case entry.IsDir():
				return Mkdir(target)
			default:
				return copyFile(pth, target)
			}
		},
	)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("os.Open: %w", err)
	}

	defer in.Close()

	if err = Mkdir(filepath.Dir(dst)); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("os.OpenFile: %w", err)
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("io.Copy: %w", err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("file Close: %w", err)
	}

	return nil
}

// ReadJSON decodes the file at pth into v.
func ReadJSON(pth string, v any) error {
	b, err := os.ReadFile(pth)
	if err != nil {
		return fmt.Errorf("os.ReadFile: %w", err)
	}

	if err = json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("json.Unmarshal %s: %w", filepath.Base(pth), err)
	}

	return nil
}

// WriteJSON writes v to pth as two-space indented JSON.
func WriteJSON(pth string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	if err = os.WriteFile(pth, b, 0o644); err != nil {
		return fmt.Errorf("os.WriteFile: %w", err)
	}

	return nil
}
