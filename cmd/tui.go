// Package cmd command line
package cmd

import (
	errors "github.com/Laisky/errors/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dsg/pharmacy-finder/cmd/tui"
	"github.com/dsg/pharmacy-finder/internal/finder"
	"github.com/dsg/pharmacy-finder/library/browser"
	"github.com/dsg/pharmacy-finder/library/config"
	"github.com/dsg/pharmacy-finder/library/log"
)

var tuiCMD = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI",
	Long: `Launch the pharmacy finder in the terminal.

Type an address and press enter, or press ctrl+f to look the address up
with the postal-code picker. Results are listed nearest first.

Keyboard shortcuts:
  Enter       Search / open directions of the selected pharmacy
  Ctrl+F      Address picker
  Tab         Switch between address bar and results
  ↑/↓ or j/k  Move between results
  r           Open road view
  Esc         Back
  Ctrl+C      Quit`,
	Args: gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		if err := initialize(cmd.Context(), cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, config.Shared())
	},
}

func init() {
	rootCMD.AddCommand(tuiCMD)
}

// runTUI starts the interactive Terminal User Interface and returns any start/run error.
func runTUI(cmd *cobra.Command, settings config.Settings) error {
	svcs, err := newServices(settings)
	if err != nil {
		return err
	}

	opener := browser.NewSystem()
	model := tui.NewModel(cmd.Context(), tui.Config{
		Controller: finder.NewController(svcs.client, svcs.controllerOptions()...),
		Resolver:   finder.NewDirectionResolver(svcs.client, opener),
		Picker:     tui.NewPicker(svcs.lookup),
		Opener:     opener,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
		tea.WithContext(cmd.Context()),
	)

	_, err = p.Run()
	return errors.WithStack(err)
}
