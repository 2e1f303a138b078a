package image

import (
	"fmt"
	"time"
)

// AttachError indicates the image could not be bound to a loop device.
type AttachError struct {
	Image string
	Err   error
}

func (e *AttachError) Error() string {
	return fmt.Sprintf("failed to attach %s to a loop device: %v", e.Image, e.Err)
}

func (e *AttachError) Unwrap() error { return e.Err }

// DetachError indicates a loop device could not be released.
type DetachError struct {
	Device string
	Err    error
}

func (e *DetachError) Error() string {
	return fmt.Sprintf("failed to detach loop device %s: %v", e.Device, e.Err)
}

func (e *DetachError) Unwrap() error { return e.Err }

// DeviceTimeoutError indicates a partition device node never appeared.
// Partition table rescans are asynchronous, so the node is polled for; this
// error means the poll deadline elapsed.
type DeviceTimeoutError struct {
	Path    string
	Timeout time.Duration
}

func (e *DeviceTimeoutError) Error() string {
	return fmt.Sprintf("device %s did not appear within %s", e.Path, e.Timeout)
}

// NoPartitionsError indicates the attached device exposes no partitions.
type NoPartitionsError struct {
	Device string
}

func (e *NoPartitionsError) Error() string {
	return fmt.Sprintf("no partitions found on %s", e.Device)
}

// PartitionNotFoundError indicates a partition number is absent from the
// device's partition table listing.
type PartitionNotFoundError struct {
	Device string
	Number int
}

func (e *PartitionNotFoundError) Error() string {
	return fmt.Sprintf("partition %d not found on %s", e.Number, e.Device)
}

// UnsupportedFilesystemError indicates the partition does not hold an
// ext-family filesystem.
type UnsupportedFilesystemError struct {
	Device string
	Type   string
}

func (e *UnsupportedFilesystemError) Error() string {
	return fmt.Sprintf("unsupported filesystem type %q on %s (only ext2/3/4 can be shrunk)", e.Type, e.Device)
}

// FilesystemCheckError indicates e2fsck could not complete. Errors that
// were found and corrected are a success, not this error.
type FilesystemCheckError struct {
	Device string
	Err    error
}

func (e *FilesystemCheckError) Error() string {
	return fmt.Sprintf("filesystem check failed on %s: %v", e.Device, e.Err)
}

func (e *FilesystemCheckError) Unwrap() error { return e.Err }

// ResizeError indicates the filesystem shrink failed. The filesystem state
// after a failed shrink is unknown, so this is never retried.
type ResizeError struct {
	Device string
	Blocks uint64
	Err    error
}

func (e *ResizeError) Error() string {
	return fmt.Sprintf("failed to resize filesystem on %s to %d blocks: %v", e.Device, e.Blocks, e.Err)
}

func (e *ResizeError) Unwrap() error { return e.Err }

// PartitionResizeError indicates rewriting the partition table entry failed.
type PartitionResizeError struct {
	Device string
	Number int
	Err    error
}

func (e *PartitionResizeError) Error() string {
	return fmt.Sprintf("failed to resize partition %d on %s: %v", e.Number, e.Device, e.Err)
}

func (e *PartitionResizeError) Unwrap() error { return e.Err }

// TruncateError indicates the backing file could not be truncated.
type TruncateError struct {
	Image string
	Size  uint64
	Err   error
}

func (e *TruncateError) Error() string {
	return fmt.Sprintf("failed to truncate %s to %d bytes: %v", e.Image, e.Size, e.Err)
}

func (e *TruncateError) Unwrap() error { return e.Err }
