// Package image implements shrinking of disk images whose final partition
// holds an ext2/3/4 filesystem. The image is attached to a loop device,
// the filesystem and its partition are shrunk to the minimum size plus a
// safety margin, and the backing file is truncated to match.
package image

// Partition is one entry of a device's partition table. Bounds are
// expressed in device sectors; End is inclusive.
type Partition struct {
	Number int
	Start  uint64
	End    uint64
}

// Sectors returns the partition's size in sectors.
func (p Partition) Sectors() uint64 {
	return p.End - p.Start + 1
}

// extFamily lists the filesystem types this tool can shrink.
var extFamily = map[string]bool{
	"ext2": true,
	"ext3": true,
	"ext4": true,
}
