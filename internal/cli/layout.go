package cli

import (
	"fmt"
	"strconv"

	"github.com/createcandle/shrenk/internal/image"
	"github.com/createcandle/shrenk/internal/system"
	"github.com/createcandle/shrenk/internal/ui"
	"github.com/spf13/cobra"
)

// LayoutCommand displays partition placement within an image
type LayoutCommand struct {
	ctx  *GlobalContext
	json bool
}

// NewLayoutCommand creates the layout command
func NewLayoutCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &LayoutCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "layout <image-path>",
		Short: "Display the partition layout of a disk image",
		Long:  `Attach a disk image read-only to a loop device and display where its partitions sit within the file.`,
		Args:  cobra.ExactArgs(1),
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().BoolVarP(&cmd.json, "json", "j", false, "JSON output")

	return cobraCmd
}

// Run executes the layout command
func (c *LayoutCommand) Run(cmd *cobra.Command, args []string) error {
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

	return runLayout(c.ctx, imagePath, c.json)
}

// runLayout attaches the image, prints the partition table and layout bar,
// and detaches again. Shared between the layout subcommand and the menu.
func runLayout(ctx *GlobalContext, imagePath string, asJSON bool) error {
	loop := image.NewLoopManager(ctx.Executor, ctx.Logger)
	inspector := image.NewDeviceInspector(ctx.Executor)

	device, err := loop.Attach(imagePath)
	if err != nil {
		return err
	}

	cleanup := system.NewCleanupStack()
	cleanup.Add(func() error {
		return loop.Detach(device)
	})
	defer func() {
		if cerr := cleanup.Execute(); cerr != nil {
			ctx.Logger.Warning("Cleanup errors occurred: %v", cerr)
		}
	}()

	partitions, err := inspector.Partitions(device)
	if err != nil {
		return err
	}
	sectorSize, err := inspector.SectorSize(device)
	if err != nil {
		return err
	}

	if asJSON {
		return ui.PrintJSON(partitions)
	}

	if len(partitions) > 0 {
		table := ui.NewTable("NUMBER", "START", "END", "SIZE")
		for _, p := range partitions {
			table.AddRow(
				strconv.Itoa(p.Number),
				strconv.FormatUint(p.Start, 10),
				strconv.FormatUint(p.End, 10),
				system.FormatSize(p.Sectors()*sectorSize),
			)
		}
		table.Print()
		fmt.Println()
	}

	fmt.Println(image.FormatLayout(partitions, sectorSize))
	return nil
}
