package image

import (
	"github.com/createcandle/shrenk/internal/system"
)

// DeviceInspector reads partition geometry from an attached loop device.
// Nothing is cached: the partition table is re-read on every call, since it
// is the single source of truth after any kernel-level table rescan.
type DeviceInspector struct {
	executor *system.Executor
}

// NewDeviceInspector creates a new device inspector
func NewDeviceInspector(executor *system.Executor) *DeviceInspector {
	return &DeviceInspector{
		executor: executor,
	}
}

// PartitionNumbers enumerates the partition numbers exposed by the device.
// The returned slice is empty when the device has no partitions.
func (d *DeviceInspector) PartitionNumbers(device string) ([]int, error) {
	output, err := d.executor.RunOutput("lsblk", "-ln", "-o", "NAME,TYPE", device)
	if err != nil {
		return nil, err
	}
	return system.ParseLsblkPartitions(output, device), nil
}

// Partitions returns all partitions of the device with their sector bounds.
func (d *DeviceInspector) Partitions(device string) ([]Partition, error) {
	output, err := d.executor.RunOutput("fdisk", "-l", device)
	if err != nil {
		return nil, err
	}

	var partitions []Partition
	for _, entry := range system.ParsePartitionTable(output, device) {
		partitions = append(partitions, Partition{
			Number: entry.Number,
			Start:  entry.Start,
			End:    entry.End,
		})
	}
	return partitions, nil
}

// PartitionBounds returns the start and end sector of one partition.
func (d *DeviceInspector) PartitionBounds(device string, number int) (start, end uint64, err error) {
	partitions, err := d.Partitions(device)
	if err != nil {
		return 0, 0, err
	}
	for _, p := range partitions {
		if p.Number == number {
			return p.Start, p.End, nil
		}
	}
	return 0, 0, &PartitionNotFoundError{Device: device, Number: number}
}

// SectorSize returns the device's logical sector size in bytes.
func (d *DeviceInspector) SectorSize(device string) (uint64, error) {
	output, err := d.executor.RunOutput("blockdev", "--getss", device)
	if err != nil {
		return 0, err
	}
	return system.ParseSectorSize(output)
}
