package commands

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/coto-cli/coto/internal/config"
	"github.com/coto-cli/coto/internal/resolve"
	"github.com/coto-cli/coto/internal/wizard"
)

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive first-time setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSetup()
		},
	}
}

func (a *app) runSetup() error {
	out := a.env.Out

	fmt.Fprintln(out, "============================")
	fmt.Fprintln(out, " Coto Initial Setup Wizard ")
	fmt.Fprintln(out, "============================")
	fmt.Fprintln(out)

	store := a.store()
	current, err := store.Load()
	if err != nil {
		return err
	}

	w := wizard.New(a.env.In, out)
	settings, err := w.Run(current, wizard.DefaultSteps(resolve.DefaultModel))
	if err != nil {
		return err
	}

	var preview bytes.Buffer
	if err := config.Encode(&preview, config.Masked(settings)); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nConfiguration to be saved:\n%s\n", preview.String())

	save, err := w.Confirm(fmt.Sprintf("Save to %s?", store.Path()), true)
	if err != nil {
		return err
	}
	if !save {
		color.New(color.FgYellow).Fprintln(out, "⚠️  Setup aborted, no changes written.")
		return nil
	}

	if err := store.Save(settings); err != nil {
		return err
	}
	success(out, "Configuration saved.")
	return nil
}
