package commands

import (
	"context"
	"errors"
	"fastfood-ratings/internal/brands"
	"fastfood-ratings/internal/collector"
	"fastfood-ratings/internal/plot"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tcnksm/go-input"
)

const report_interactive_collect = "interactive.collect"

const (
	inputExit = "exit"
	inputNo   = "no"
)

// Prompter asks the user a question, *input.UI implements it.
type Prompter interface {
	Ask(query string, opts *input.Options) (string, error)
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Prompts for brands and locations and plots the results, this is the default command.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd)
	},
}

func runInteractive(cmd *cobra.Command) error {
	a, err := appFromState(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	ui := &input.UI{
		Writer: cmd.OutOrStdout(),
		Reader: cmd.InOrStdin(),
	}
	return a.interactive(cmd.Context(), ui)
}

func (a *app) askBrand(prompter Prompter, list []string) (string, error) {
	answer, err := prompter.Ask(
		fmt.Sprintf("Which brand do you want to look up? (%q to quit)", inputExit),
		&input.Options{
			Required: true,
			Loop:     true,
			ValidateFunc: func(s string) error {
				s = brands.Normalize(s)
				if s == inputExit || brands.Valid(list, s) {
					return nil
				}
				return fmt.Errorf("%q is not one of the listed brands", s)
			},
		},
	)
	if err != nil {
		return "", err
	}
	return brands.Normalize(answer), nil
}

func (a *app) askLocation(prompter Prompter) (string, error) {
	answer, err := prompter.Ask("Around which location? (ex. ann arbor)", &input.Options{
		Required: true,
		Loop:     true,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// askChart returns the chart number picked, or 0 along with the sentinel typed.
func (a *app) askChart(prompter Prompter) (int, string, error) {
	answer, err := prompter.Ask(
		fmt.Sprintf("Which chart do you want to see? (1-%d, %q for another brand, %q to quit)", len(plot.Charts), inputNo, inputExit),
		&input.Options{
			Required: true,
			Loop:     true,
			ValidateFunc: func(s string) error {
				s = strings.ToLower(strings.TrimSpace(s))
				if s == inputNo || s == inputExit {
					return nil
				}
				n, err := strconv.Atoi(s)
				if err != nil {
					return fmt.Errorf("%q is not a number", s)
				}
				_, err = plot.Lookup(n)
				return err
			},
		},
	)
	if err != nil {
		return 0, "", err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, answer, nil
	}
	return n, "", nil
}

// chartMenu shows charts of `result` until the user types no or exit, it returns true on exit.
func (a *app) chartMenu(prompter Prompter, result collector.Result) (bool, error) {
	for {
		renderCharts(a.out)
		n, sentinel, err := a.askChart(prompter)
		if err != nil {
			return false, err
		}
		switch sentinel {
		case inputExit:
			return true, nil
		case inputNo:
			return false, nil
		}

		path, err := plot.Render(n, result.Metrics, a.cfg.Output.PlotDir)
		if errors.Is(err, plot.ErrNoData) {
			fmt.Fprintln(a.out, "there is nothing to plot for this chart")
			continue
		}
		if err != nil {
			return false, err
		}
		fmt.Fprintln(a.out, "wrote", path)
	}
}

func (a *app) interactive(ctx context.Context, prompter Prompter) error {
	list, err := a.listBrands(ctx)
	if err != nil {
		return err
	}
	renderBrands(a.out, list)

	for {
		brand, err := a.askBrand(prompter, list)
		if err != nil {
			return err
		}
		if brand == inputExit {
			return nil
		}
		location, err := a.askLocation(prompter)
		if err != nil {
			return err
		}

		result, err := a.collect(ctx, brand, location)
		if err != nil {
			// the failed collection is abandoned, the session goes on
			a.tel.ReportWarning(report_interactive_collect, err, brand, location)
			fmt.Fprintln(a.out, "failed to collect:", err)
			continue
		}
		renderResult(a.out, result)

		exit, err := a.chartMenu(prompter, result)
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
}
