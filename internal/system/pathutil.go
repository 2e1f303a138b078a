package system

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ResolveImagePath validates and resolves a disk image path. Symlinks are
// resolved to the canonical path and the target must be a regular file.
// Returns the canonical absolute path if valid.
func ResolveImagePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("image not found: %s", absPath)
		}
		return "", fmt.Errorf("failed to resolve image path: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("image not accessible: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("image must be a regular file, not a directory or device: %s", resolved)
	}

	return resolved, nil
}

// GetFileSize returns the size of a file in bytes
func GetFileSize(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat file: %w", err)
	}
	return uint64(info.Size()), nil
}

// IsBlockDevice reports whether path exists and is a block device node.
func IsBlockDevice(path string) bool {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return false
	}
	return stat.Mode&unix.S_IFMT == unix.S_IFBLK
}
