package cli

import (
	"fmt"
	"time"

	"github.com/createcandle/shrenk/internal/image"
	"github.com/createcandle/shrenk/internal/system"
	"github.com/createcandle/shrenk/internal/ui"
	"github.com/spf13/cobra"
)

// ShrinkCommand runs the full resize-and-truncate pipeline
type ShrinkCommand struct {
	ctx         *GlobalContext
	margin      uint64
	waitTimeout time.Duration
	yes         bool
}

// NewShrinkCommand creates the shrink command
func NewShrinkCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &ShrinkCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "shrink <image-path>",
		Short: "Shrink a disk image to its minimum size",
		Long: `Shrink the ext2/3/4 filesystem in the image's last partition to its
minimum size plus a safety margin, shrink the partition to match, and
truncate the image file to reclaim the unused trailing space.`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().Uint64VarP(&cmd.margin, "margin", "m", image.DefaultMarginBytes/(1024*1024),
		"Safety margin in MiB added beyond the minimum filesystem size")
	cobraCmd.Flags().DurationVar(&cmd.waitTimeout, "wait-timeout", image.DefaultWaitTimeout,
		"How long to wait for partition device nodes to appear")
	cobraCmd.Flags().BoolVarP(&cmd.yes, "yes", "y", false, "Skip confirmation prompt")

	return cobraCmd
}

// Run executes the shrink command
func (c *ShrinkCommand) Run(cmd *cobra.Command, args []string) error {
	if err := system.RequireRoot(); err != nil {
		return err
	}

	if err := c.ctx.CheckDependencies(); err != nil {
		return err
	}

	imagePath, err := system.ResolveImagePath(args[0])
	if err != nil {
		return err
	}

	return runShrink(c.ctx, imagePath, c.margin, c.waitTimeout, c.yes)
}

// runShrink performs the resize-and-truncate run. Shared between the shrink
// subcommand and the menu.
func runShrink(ctx *GlobalContext, imagePath string, marginMiB uint64, waitTimeout time.Duration, yes bool) error {
	sizeBefore, err := system.GetFileSize(imagePath)
	if err != nil {
		return err
	}

	ctx.Logger.Info("Image: %s (%s)", imagePath, system.FormatSize(sizeBefore))
	ctx.Logger.Warning("This operation rewrites the image in place. Work on a backup copy.")
	if !yes {
		if !ui.PromptConfirm("Proceed with resize and truncate?") {
			return fmt.Errorf("shrink cancelled by user")
		}
	}

	shrinker := ctx.NewShrinker(marginMiB, waitTimeout)
	ctx.Logger.Info("Starting resize and truncate process for %s", imagePath)
	if err := shrinker.Run(imagePath); err != nil {
		return err
	}

	sizeAfter, err := system.GetFileSize(imagePath)
	if err != nil {
		return err
	}

	if sizeAfter < sizeBefore {
		ctx.Logger.Success("Image shrunk: %s -> %s (reclaimed %s)",
			system.FormatSize(sizeBefore), system.FormatSize(sizeAfter),
			system.FormatSize(sizeBefore-sizeAfter))
	} else {
		ctx.Logger.Success("Image already at minimum size: %s", system.FormatSize(sizeAfter))
	}
	ctx.Logger.Info("Verify the resized image before use.")

	return nil
}
