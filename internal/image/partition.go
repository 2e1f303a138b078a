package image

import (
	"fmt"
	"strconv"

	"github.com/createcandle/shrenk/internal/system"
)

// PartitionResizer rewrites partition table entries via parted.
type PartitionResizer struct {
	executor *system.Executor
}

// NewPartitionResizer creates a new partition resizer
func NewPartitionResizer(executor *system.Executor) *PartitionResizer {
	return &PartitionResizer{
		executor: executor,
	}
}

// ResizeEnd moves a partition's end boundary to the given absolute sector.
// parted prompts for confirmation when a resize shrinks a partition and has
// no force flag for it, so the confirmation is supplied on stdin together
// with ---pretend-input-tty.
func (r *PartitionResizer) ResizeEnd(device string, number int, endSector uint64) error {
	_, err := r.executor.RunInput("Yes\n", "parted", "---pretend-input-tty", device,
		"unit", "s", "resizepart", strconv.Itoa(number), fmt.Sprintf("%ds", endSector))
	if err != nil {
		return &PartitionResizeError{Device: device, Number: number, Err: err}
	}
	return nil
}
