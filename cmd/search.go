package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dsg/pharmacy-finder/internal/finder"
	"github.com/dsg/pharmacy-finder/library/browser"
	"github.com/dsg/pharmacy-finder/library/config"
	"github.com/dsg/pharmacy-finder/library/log"
)

var searchCMD = &cobra.Command{
	Use:   "search <address>",
	Short: "search pharmacies near an address once",
	Long: `search pharmacies near an address and print them nearest first.

Example:
  pharmacy-finder search 서울시 강남구 역삼동
  pharmacy-finder search 서울시 강남구 --open 1`,
	Args: cobra.MinimumNArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		if err := initialize(cmd.Context(), cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		open, err := cmd.Flags().GetInt("open")
		if err != nil {
			return errors.Wrap(err, "get --open")
		}
		return runSearch(cmd, config.Shared(), strings.Join(args, " "), open)
	},
}

func runSearch(cmd *cobra.Command, settings config.Settings, address string, open int) error {
	svcs, err := newServices(settings)
	if err != nil {
		return err
	}

	controller := finder.NewController(svcs.client, svcs.controllerOptions()...)
	snap, err := controller.Search(cmd.Context(), address)
	if err != nil {
		return errors.New(finder.Prompt(err))
	}

	view := snap.View()
	printResults(cmd.OutOrStdout(), view)

	if open <= 0 {
		return nil
	}
	if open > len(view.Cards) {
		return errors.Errorf("--open %d is out of range, got %d results", open, len(view.Cards))
	}

	// resolution failures are logged by the resolver and otherwise ignored
	resolver := finder.NewDirectionResolver(svcs.client, browser.NewSystem())
	_, _ = resolver.Open(cmd.Context(), view.Cards[open-1].Direction)
	return nil
}

// printResults writes view as an aligned table, sized by display width so
// Hangul names line up.
func printResults(w io.Writer, view finder.ResultsView) {
	if !view.Visible {
		return
	}
	fmt.Fprintln(w, view.Header)

	nameWidth := 0
	for _, card := range view.Cards {
		nameWidth = max(nameWidth, runewidth.StringWidth(card.Name))
	}

	for i, card := range view.Cards {
		fmt.Fprintf(w, "%2d. %s  %s  %s\n",
			i+1,
			runewidth.FillRight(card.Name, nameWidth),
			card.Distance,
			card.Address,
		)
	}
}

func init() {
	searchCMD.Flags().Int("open", 0, "open directions of the N-th result")
	rootCMD.AddCommand(searchCMD)
}
