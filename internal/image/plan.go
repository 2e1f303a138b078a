package image

import "fmt"

// DefaultMarginBytes is the extra free space added beyond the computed
// minimum so the shrunk filesystem is not left completely full.
const DefaultMarginBytes = 100 * 1024 * 1024

// SizePlan is the computed shrink target for one run. It is derived once
// from fresh measurements and never mutated afterwards.
type SizePlan struct {
	TargetBlocks  uint64 // filesystem blocks, minimum plus margin
	TargetBytes   uint64 // TargetBlocks * block size
	TargetSectors uint64 // TargetBytes in device sectors, rounded up
	NewEndSector  uint64 // last sector of the shrunk partition
	ShrinkNeeded  bool   // false when the partition is already at target
}

// PlanShrink derives the shrink target from the filesystem's minimum size,
// its block size, the safety margin, and the partition's current geometry.
// Pure computation, no I/O.
//
// The margin is additive, so TargetBlocks >= minBlocks always. ShrinkNeeded
// allows a one-sector tolerance to absorb rounding noise: a partition within
// one sector of target is left alone rather than rewritten for nothing.
func PlanShrink(minBlocks, blockSize, marginBytes, sectorSize, startSector, endSector uint64) (SizePlan, error) {
	if blockSize == 0 {
		return SizePlan{}, fmt.Errorf("filesystem block size is zero")
	}
	if sectorSize == 0 {
		return SizePlan{}, fmt.Errorf("device sector size is zero")
	}
	if endSector < startSector {
		return SizePlan{}, fmt.Errorf("partition end sector %d precedes start sector %d", endSector, startSector)
	}

	extraBlocks := (marginBytes + blockSize - 1) / blockSize
	targetBlocks := minBlocks + extraBlocks
	targetBytes := targetBlocks * blockSize
	targetSectors := (targetBytes + sectorSize - 1) / sectorSize
	if targetSectors == 0 {
		// The resulting end sector would precede the start sector; issuing
		// that resize would destroy the partition.
		return SizePlan{}, fmt.Errorf("computed target size of zero sectors")
	}

	currentBytes := (endSector - startSector + 1) * sectorSize
	shrinkNeeded := currentBytes > targetBytes && currentBytes-targetBytes > sectorSize

	return SizePlan{
		TargetBlocks:  targetBlocks,
		TargetBytes:   targetBytes,
		TargetSectors: targetSectors,
		NewEndSector:  startSector + targetSectors - 1,
		ShrinkNeeded:  shrinkNeeded,
	}, nil
}
