package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/createcandle/shrenk/internal/ui"
)

// MenuChoice is a selection from the interactive main menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoiceLayout
	ChoiceShrink
	ChoiceQuit
)

// ParseMenuChoice maps user input to a menu choice. Unrecognized input maps
// to ChoiceNone, which re-prompts.
func ParseMenuChoice(input string) MenuChoice {
	switch strings.TrimSpace(input) {
	case "1":
		return ChoiceLayout
	case "2":
		return ChoiceShrink
	case "3", "q", "Q":
		return ChoiceQuit
	}
	return ChoiceNone
}

// RunMenu presents the interactive menu for an image and executes the
// selected action. Invalid input re-prompts; quit returns without changes.
func RunMenu(ctx *GlobalContext, imagePath string, marginMiB uint64, waitTimeout time.Duration) error {
	if !ui.IsInteractive() {
		return fmt.Errorf("standard input is not a terminal; use the layout or shrink subcommands instead")
	}

	for {
		fmt.Fprintln(os.Stderr, "Select an action for the image:")
		fmt.Fprintln(os.Stderr, "  1) Display partition layout")
		fmt.Fprintln(os.Stderr, "  2) Resize and truncate image")
		fmt.Fprintln(os.Stderr, "  3) Quit")

		switch ParseMenuChoice(ui.PromptString("Enter choice [1/2/3]")) {
		case ChoiceLayout:
			return runLayout(ctx, imagePath, false)
		case ChoiceShrink:
			return runShrink(ctx, imagePath, marginMiB, waitTimeout, false)
		case ChoiceQuit:
			ctx.Logger.Info("Exiting without changes.")
			return nil
		default:
			ctx.Logger.Warning("Invalid selection. Please enter 1, 2, or 3.")
		}
	}
}
