package image

import (
	"fmt"
	"strings"
	"time"

	"github.com/createcandle/shrenk/internal/system"
	"github.com/createcandle/shrenk/internal/ui"
)

const nodePollInterval = 200 * time.Millisecond

// DefaultWaitTimeout bounds the wait for a partition device node to appear
// after a partition table rescan.
const DefaultWaitTimeout = 10 * time.Second

// LoopManager handles loop device operations
type LoopManager struct {
	executor *system.Executor
	logger   *ui.Logger
}

// NewLoopManager creates a new loop manager
func NewLoopManager(executor *system.Executor, logger *ui.Logger) *LoopManager {
	return &LoopManager{
		executor: executor,
		logger:   logger,
	}
}

// Attach binds the image to a free loop device with partition scanning
// enabled and returns the device name. A table rescan is triggered and udev
// is given a chance to settle; both are advisory and their failure only
// logged, since the partition node is polled for separately.
func (m *LoopManager) Attach(path string) (string, error) {
	output, err := m.executor.RunOutput("losetup", "--show", "-f", "-P", path)
	if err != nil {
		return "", &AttachError{Image: path, Err: err}
	}
	device := strings.TrimSpace(output)
	if device == "" {
		return "", &AttachError{Image: path, Err: fmt.Errorf("losetup reported no device name")}
	}

	if err := m.executor.Run("partprobe", device); err != nil {
		m.logger.Warning("partition table rescan on %s failed: %v", device, err)
	}
	if err := m.executor.Run("udevadm", "settle"); err != nil {
		m.logger.Warning("udev settle failed: %v", err)
	}

	return device, nil
}

// Detach releases a loop device
func (m *LoopManager) Detach(device string) error {
	if err := m.executor.Run("losetup", "-d", device); err != nil {
		return &DetachError{Device: device, Err: err}
	}
	return nil
}

// PartitionDevice returns the device node path for a partition of a loop
// device, e.g. /dev/loop0 partition 2 -> /dev/loop0p2.
func (m *LoopManager) PartitionDevice(device string, number int) string {
	return fmt.Sprintf("%sp%d", device, number)
}

// WaitForNode blocks until the given path exists as a block device node or
// the timeout elapses. Rescans complete asynchronously relative to the
// rescan call returning, so the node may materialize some time later.
func (m *LoopManager) WaitForNode(path string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if system.IsBlockDevice(path) {
			return nil
		}
		if time.Now().After(deadline) {
			return &DeviceTimeoutError{Path: path, Timeout: timeout}
		}
		time.Sleep(nodePollInterval)
	}
}
