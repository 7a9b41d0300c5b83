package phototinder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileManager relocates photo files for triage decisions and reverses
// those moves on undo. The default implementation works on the local
// filesystem; tests substitute their own.
type FileManager interface {
	// Move relocates src into destDir, picking a collision-free name,
	// and returns the destination path.
	Move(src, destDir string) (string, error)

	// Restore moves a previously relocated file back to its original
	// path, recreating parent directories as needed.
	Restore(movedPath, originalPath string) error
}

type osFileManager struct{}

func (osFileManager) Move(src, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create destination %s: %w", destDir, err)
	}
	if _, err := os.Stat(src); err != nil {
		return "", errMissing("image file", src)
	}
	dest := destinationPath(filepath.Base(src), destDir)
	if err := moveFile(src, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (osFileManager) Restore(movedPath, originalPath string) error {
	if _, err := os.Stat(movedPath); err != nil {
		return errMissing("moved file", movedPath)
	}
	if parent := filepath.Dir(originalPath); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", parent, err)
		}
	}
	return moveFile(movedPath, originalPath)
}

// destinationPath joins filename onto destDir, appending _1, _2, ...
// before the extension until the name is free.
func destinationPath(filename, destDir string) string {
	dest := filepath.Join(destDir, filename)
	if _, err := os.Stat(dest); err != nil {
		return dest
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for counter := 1; ; counter++ {
		dest = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		if _, err := os.Stat(dest); err != nil {
			return dest
		}
	}
}

// moveFile renames src to dest, falling back to copy+delete when the
// rename crosses filesystems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyFile(src, dest); err != nil {
		return fmt.Errorf("move %s: %w", src, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("file copied but original not removed: %w", err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
