package image

import "os"

// ComputeTruncateSize returns the byte offset at which the image file can be
// cut without destroying data: everything before the partition, plus the
// shrunk filesystem itself.
//
// ext block sizes (1, 2 or 4 KiB) are multiples of the device sector size,
// so targetBytes is already sector-aligned. If that ever stopped holding,
// the safer computation would be (startSector + targetSectors) * sectorSize.
func ComputeTruncateSize(startSector, sectorSize, targetBytes uint64) uint64 {
	return startSector*sectorSize + targetBytes
}

// Truncator shrinks the backing image file. This is the single irreversible
// step of a run: every earlier step only touches device-mapped or
// filesystem-level state, this one discards bytes from the real file.
type Truncator struct{}

// NewTruncator creates a new truncator
func NewTruncator() *Truncator {
	return &Truncator{}
}

// Truncate shrinks the image file to exactly size bytes.
func (t *Truncator) Truncate(path string, size uint64) error {
	if err := os.Truncate(path, int64(size)); err != nil {
		return &TruncateError{Image: path, Size: size, Err: err}
	}
	return nil
}
