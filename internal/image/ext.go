package image

import (
	"errors"
	"strconv"
	"strings"

	"github.com/createcandle/shrenk/internal/system"
)

// ExtManager drives the e2fsprogs tools against a partition device.
type ExtManager struct {
	executor *system.Executor
}

// NewExtManager creates a new ext filesystem manager
func NewExtManager(executor *system.Executor) *ExtManager {
	return &ExtManager{
		executor: executor,
	}
}

// FilesystemType returns the filesystem type on the partition device.
func (m *ExtManager) FilesystemType(device string) (string, error) {
	output, err := m.executor.RunOutput("blkid", "-o", "value", "-s", "TYPE", device)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// AssertExtFamily fails unless the partition holds an ext2/3/4 filesystem.
// Runs before any destructive step.
func (m *ExtManager) AssertExtFamily(device string) error {
	fsType, err := m.FilesystemType(device)
	if err != nil {
		return err
	}
	if !extFamily[fsType] {
		return &UnsupportedFilesystemError{Device: device, Type: fsType}
	}
	return nil
}

// Check runs a non-interactive, auto-repairing consistency check.
// e2fsck exits 1 or 2 when errors were found and corrected; that is a
// success. Anything above 2 means the check could not complete.
func (m *ExtManager) Check(device string) error {
	if err := m.executor.Run("e2fsck", "-f", "-y", device); err != nil {
		var cmdErr *system.CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 && cmdErr.ExitCode <= 2 {
			return nil
		}
		return &FilesystemCheckError{Device: device, Err: err}
	}
	return nil
}

// MinimumBlocks returns the smallest filesystem size, in filesystem blocks,
// that still holds the existing data. Uses the resize2fs dry-run estimate;
// makes no changes.
func (m *ExtManager) MinimumBlocks(device string) (uint64, error) {
	output, err := m.executor.RunOutput("resize2fs", "-P", device)
	if err != nil {
		return 0, err
	}
	return system.ParseMinimumBlocks(output)
}

// BlockSize returns the filesystem block size in bytes.
func (m *ExtManager) BlockSize(device string) (uint64, error) {
	output, err := m.executor.RunOutput("tune2fs", "-l", device)
	if err != nil {
		return 0, err
	}
	return system.ParseBlockSize(output)
}

// Resize shrinks the filesystem to exactly the given block count. A failure
// here is fatal and never retried: the filesystem state after a failed
// shrink is unknown and must be surfaced to the operator.
func (m *ExtManager) Resize(device string, blocks uint64) error {
	if err := m.executor.Run("resize2fs", device, strconv.FormatUint(blocks, 10)); err != nil {
		return &ResizeError{Device: device, Blocks: blocks, Err: err}
	}
	return nil
}
