package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/createcandle/shrenk/internal/cli"
	"github.com/createcandle/shrenk/internal/image"
	"github.com/createcandle/shrenk/internal/system"
	"github.com/createcandle/shrenk/internal/ui"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	noColor bool
	debug   bool

	margin      uint64
	waitTimeout time.Duration

	ctx  *cli.GlobalContext
	once sync.Once
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shrenk <image-path>",
	Short: "Shrenk - ext disk image shrinker",
	Long: `Shrenk shrinks a disk image whose last partition holds an ext2/3/4
filesystem down to the minimum footprint that still holds its data.

The filesystem is resized to its minimum size plus a safety margin, the
partition table entry is shrunk to match, and the image file is truncated
to reclaim the unused trailing space. It drives the standard Linux tools
(losetup, fdisk, parted, e2fsck, resize2fs, tune2fs) and needs root.

Run with just an image path for an interactive menu, or use the layout
and shrink subcommands directly.`,
	Version: "0.1.0",
	Args:    cobra.ArbitraryArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Update context components with parsed flag values
		once.Do(func() {
			ctx.Executor = system.NewExecutor(debug)
			ctx.Logger = ui.NewLogger(verbose, quiet, noColor)
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			cmd.Usage()
			return fmt.Errorf("expected exactly one image path argument")
		}

		if err := system.RequireRoot(); err != nil {
			return err
		}
		if err := ctx.CheckDependencies(); err != nil {
			return err
		}

		imagePath, err := system.ResolveImagePath(args[0])
		if err != nil {
			return err
		}

		return cli.RunMenu(ctx, imagePath, margin, waitTimeout)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (suppress non-error output)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable color output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug mode (show commands)")

	// Menu flags; the shrink subcommand carries its own copies
	rootCmd.Flags().Uint64VarP(&margin, "margin", "m", image.DefaultMarginBytes/(1024*1024),
		"Safety margin in MiB added beyond the minimum filesystem size")
	rootCmd.Flags().DurationVar(&waitTimeout, "wait-timeout", image.DefaultWaitTimeout,
		"How long to wait for partition device nodes to appear")

	// Create initial context with default values
	// Will be updated in PersistentPreRun with parsed flag values
	ctx = cli.NewGlobalContext(false, false, false, false)

	// Register commands
	rootCmd.AddCommand(cli.NewLayoutCommand(ctx))
	rootCmd.AddCommand(cli.NewShrinkCommand(ctx))

	// Set up help templates
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
