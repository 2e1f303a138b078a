package image

import (
	"fmt"
	"time"

	"github.com/createcandle/shrenk/internal/system"
	"github.com/createcandle/shrenk/internal/ui"
)

// Collaborator interfaces for the orchestrator. The concrete managers in
// this package implement them; tests substitute fakes.

// LoopDeviceManager maps an image file to a kernel block device and back.
type LoopDeviceManager interface {
	Attach(path string) (string, error)
	Detach(device string) error
	PartitionDevice(device string, number int) string
	WaitForNode(path string, timeout time.Duration) error
}

// DeviceReader reads partition geometry from an attached device.
type DeviceReader interface {
	PartitionNumbers(device string) ([]int, error)
	Partitions(device string) ([]Partition, error)
	PartitionBounds(device string, number int) (start, end uint64, err error)
	SectorSize(device string) (uint64, error)
}

// FilesystemManager validates, inspects and shrinks the ext filesystem on a
// partition device.
type FilesystemManager interface {
	AssertExtFamily(device string) error
	Check(device string) error
	MinimumBlocks(device string) (uint64, error)
	BlockSize(device string) (uint64, error)
	Resize(device string, blocks uint64) error
}

// PartitionTableResizer rewrites a partition's end boundary.
type PartitionTableResizer interface {
	ResizeEnd(device string, number int, endSector uint64) error
}

// FileTruncator shrinks the backing image file.
type FileTruncator interface {
	Truncate(path string, size uint64) error
}

// runState tracks where a shrink run is in its pipeline. The loop device
// must be detached and re-attached between the partition resize and the
// truncation offset computation so the kernel drops its cached table.
type runState int

const (
	stateIdle runState = iota
	stateAttached
	stateInspected
	statePlanned
	stateFSShrunk
	statePartitionShrunk
	stateDetached
	stateReattached
	stateTruncated
	stateDone
	stateFailed
)

var runStateNames = map[runState]string{
	stateIdle:            "idle",
	stateAttached:        "attached",
	stateInspected:       "inspected",
	statePlanned:         "planned",
	stateFSShrunk:        "fs-shrunk",
	statePartitionShrunk: "partition-shrunk",
	stateDetached:        "detached",
	stateReattached:      "reattached",
	stateTruncated:       "truncated",
	stateDone:            "done",
	stateFailed:          "failed",
}

func (s runState) String() string {
	if name, ok := runStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Shrinker sequences a full resize-and-truncate run. It owns the loop
// device for the duration of each attach and guarantees release on every
// exit path, including failures and the early "no shrink needed" success.
type Shrinker struct {
	Loop      LoopDeviceManager
	Inspector DeviceReader
	Ext       FilesystemManager
	Parts     PartitionTableResizer
	Trunc     FileTruncator
	Logger    *ui.Logger

	MarginBytes uint64        // safety margin added to the minimum size
	WaitTimeout time.Duration // partition node poll deadline

	state runState
}

// NewShrinker wires a shrinker from the concrete managers.
func NewShrinker(executor *system.Executor, logger *ui.Logger) *Shrinker {
	return &Shrinker{
		Loop:        NewLoopManager(executor, logger),
		Inspector:   NewDeviceInspector(executor),
		Ext:         NewExtManager(executor),
		Parts:       NewPartitionResizer(executor),
		Trunc:       NewTruncator(),
		Logger:      logger,
		MarginBytes: DefaultMarginBytes,
		WaitTimeout: DefaultWaitTimeout,
	}
}

func (s *Shrinker) setState(next runState) {
	s.Logger.Debug("state: %s -> %s", s.state, next)
	s.state = next
}

// withAttached attaches the image, runs fn against the loop device, and
// releases the device afterwards. On fn failure the detach happens through
// the cleanup stack so no error path can leak the device; on success the
// detach is explicit and its failure is reported, since a stale kernel
// table cache would make every later measurement wrong.
func (s *Shrinker) withAttached(imagePath string, fn func(device string) error) error {
	device, err := s.Loop.Attach(imagePath)
	if err != nil {
		return err
	}
	s.setState(stateAttached)

	cleanup := system.NewCleanupStack()
	cleanup.Add(func() error {
		return s.Loop.Detach(device)
	})
	defer func() {
		if cerr := cleanup.Execute(); cerr != nil {
			s.Logger.Warning("cleanup errors occurred: %v", cerr)
		}
	}()

	if err := fn(device); err != nil {
		return err
	}

	cleanup.Clear()
	if err := s.Loop.Detach(device); err != nil {
		return err
	}
	s.setState(stateDetached)
	return nil
}

// lastPartition resolves the highest-numbered partition on the device and
// waits for its node to materialize.
func (s *Shrinker) lastPartition(device string) (number int, partDev string, err error) {
	numbers, err := s.Inspector.PartitionNumbers(device)
	if err != nil {
		return 0, "", err
	}
	if len(numbers) == 0 {
		return 0, "", &NoPartitionsError{Device: device}
	}
	for _, n := range numbers {
		if n > number {
			number = n
		}
	}

	partDev = s.Loop.PartitionDevice(device, number)
	if err := s.Loop.WaitForNode(partDev, s.WaitTimeout); err != nil {
		return 0, "", err
	}
	return number, partDev, nil
}

// Layout attaches the image, renders the partition layout bar, and detaches.
func (s *Shrinker) Layout(imagePath string) (string, error) {
	var text string
	err := s.withAttached(imagePath, func(device string) error {
		partitions, err := s.Inspector.Partitions(device)
		if err != nil {
			return err
		}
		sectorSize, err := s.Inspector.SectorSize(device)
		if err != nil {
			return err
		}
		text = FormatLayout(partitions, sectorSize)
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// Run executes the full resize-and-truncate pipeline on the image:
// attach, inspect, plan, shrink the filesystem, shrink the partition,
// detach and re-attach for an authoritative table re-read, compute the
// truncation offset, detach, truncate, and finally re-attach once more to
// display the resulting layout.
func (s *Shrinker) Run(imagePath string) (err error) {
	s.state = stateIdle
	defer func() {
		if err != nil {
			s.setState(stateFailed)
		}
	}()

	var (
		plan       SizePlan
		partNumber int
	)

	// Phase 1: inspect, plan, and shrink filesystem and partition.
	err = s.withAttached(imagePath, func(device string) error {
		s.Logger.Info("Image attached as %s", device)

		number, partDev, err := s.lastPartition(device)
		if err != nil {
			return err
		}
		partNumber = number
		s.Logger.Info("Using last partition: %s", partDev)

		// Sanity check before anything destructive.
		if err := s.Ext.AssertExtFamily(partDev); err != nil {
			return err
		}

		s.Logger.Info("Checking filesystem for errors...")
		if err := s.Ext.Check(partDev); err != nil {
			return err
		}

		minBlocks, err := s.Ext.MinimumBlocks(partDev)
		if err != nil {
			return err
		}
		blockSize, err := s.Ext.BlockSize(partDev)
		if err != nil {
			return err
		}
		s.Logger.Info("Minimum filesystem size: %d blocks of %d bytes", minBlocks, blockSize)
		s.setState(stateInspected)

		startSector, endSector, err := s.Inspector.PartitionBounds(device, number)
		if err != nil {
			return err
		}
		sectorSize, err := s.Inspector.SectorSize(device)
		if err != nil {
			return err
		}

		plan, err = PlanShrink(minBlocks, blockSize, s.MarginBytes, sectorSize, startSector, endSector)
		if err != nil {
			return err
		}
		s.setState(statePlanned)

		if !plan.ShrinkNeeded {
			return nil
		}
		s.Logger.Info("Target filesystem size with %s margin: %d blocks (%s)",
			system.FormatSize(s.MarginBytes), plan.TargetBlocks, system.FormatSize(plan.TargetBytes))

		s.Logger.Info("Resizing filesystem to target size...")
		if err := s.Ext.Resize(partDev, plan.TargetBlocks); err != nil {
			return err
		}
		s.setState(stateFSShrunk)

		// Re-read the bounds: only the start sector is invariant across a
		// filesystem shrink, the table still shows the old end.
		freshStart, freshEnd, err := s.Inspector.PartitionBounds(device, number)
		if err != nil {
			return err
		}
		if freshStart != startSector {
			return fmt.Errorf("partition %d start sector moved from %d to %d during filesystem resize",
				number, startSector, freshStart)
		}
		s.Logger.Info("Partition %d: start sector %d, current end sector %d, new end sector %d",
			number, freshStart, freshEnd, plan.NewEndSector)

		if err := s.Parts.ResizeEnd(device, number, plan.NewEndSector); err != nil {
			return err
		}
		s.setState(statePartitionShrunk)
		return nil
	})
	if err != nil {
		return err
	}

	if !plan.ShrinkNeeded {
		s.Logger.Info("The partition is already at or near its target minimal size. No shrinking necessary.")
		s.setState(stateDone)
		return nil
	}

	// Phase 2: re-attach so the kernel re-reads the just-written table, then
	// recompute the truncation offset from authoritative values. The new
	// attach generally yields a different loop device name; only the fresh
	// handle is used from here on.
	var truncateSize uint64
	err = s.withAttached(imagePath, func(device string) error {
		s.setState(stateReattached)
		s.Logger.Info("Reattached image as %s", device)

		partDev := s.Loop.PartitionDevice(device, partNumber)
		if err := s.Loop.WaitForNode(partDev, s.WaitTimeout); err != nil {
			return err
		}

		startSector, _, err := s.Inspector.PartitionBounds(device, partNumber)
		if err != nil {
			return err
		}
		sectorSize, err := s.Inspector.SectorSize(device)
		if err != nil {
			return err
		}

		truncateSize = ComputeTruncateSize(startSector, sectorSize, plan.TargetBytes)
		s.Logger.Info("Calculated truncate size: %d bytes (%s)", truncateSize, system.FormatSize(truncateSize))
		return nil
	})
	if err != nil {
		return err
	}

	s.Logger.Info("Truncating image file to remove unused trailing space...")
	if err = s.Trunc.Truncate(imagePath, truncateSize); err != nil {
		return err
	}
	s.setState(stateTruncated)

	// Phase 3: show the final layout.
	text, err := s.Layout(imagePath)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(text)

	s.setState(stateDone)
	return nil
}
