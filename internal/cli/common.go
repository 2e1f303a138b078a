package cli

import (
	"time"

	"github.com/createcandle/shrenk/internal/image"
	"github.com/createcandle/shrenk/internal/system"
	"github.com/createcandle/shrenk/internal/ui"
)

// GlobalContext holds shared resources for all commands
type GlobalContext struct {
	Executor *system.Executor
	Logger   *ui.Logger
}

// NewGlobalContext creates a new global context
func NewGlobalContext(verbose, quiet, noColor, debug bool) *GlobalContext {
	return &GlobalContext{
		Executor: system.NewExecutor(debug),
		Logger:   ui.NewLogger(verbose, quiet, noColor),
	}
}

// CheckDependencies checks for required system commands
func (ctx *GlobalContext) CheckDependencies() error {
	deps := []string{
		"losetup",
		"partprobe",
		"udevadm",
		"lsblk",
		"blockdev",
		"fdisk",
		"parted",
		"blkid",
		"e2fsck",
		"resize2fs",
		"tune2fs",
	}
	return ctx.Executor.CheckDependencies(deps)
}

// NewShrinker builds a shrinker with the given safety margin and device
// node wait timeout.
func (ctx *GlobalContext) NewShrinker(marginMiB uint64, waitTimeout time.Duration) *image.Shrinker {
	shrinker := image.NewShrinker(ctx.Executor, ctx.Logger)
	shrinker.MarginBytes = marginMiB * 1024 * 1024
	shrinker.WaitTimeout = waitTimeout
	return shrinker
}
