package commands

import (
	"fastfood-ratings/internal/brands"
	"fastfood-ratings/internal/plot"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	collectBrand    string
	collectLocation string
	collectPlots    []int
)

func init() {
	collectCmd.Flags().StringVarP(&collectBrand, "brand", "b", "", "The brand to collect, see \"ratings brands\".")
	collectCmd.Flags().StringVarP(&collectLocation, "location", "l", "", "The location to search around, ex. \"ann arbor\".")
	collectCmd.Flags().IntSliceVarP(&collectPlots, "plot", "p", nil, "Charts to render after collecting (1-8), can be repeated.")
	collectCmd.MarkFlagRequired("brand")
	collectCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(collectCmd)
}

var collectCmd = &cobra.Command{
	Use:   "collect --brand <brand> --location <location> [--plot <n>]...",
	Short: "Collects the ratings of a brand around a location and prints the matched places.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFromState(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.Close()

		// validate plot choices before doing any requests
		for _, n := range collectPlots {
			_, err := plot.Lookup(n)
			if err != nil {
				return err
			}
		}

		list, err := a.listBrands(cmd.Context())
		if err != nil {
			return err
		}
		brand := brands.Normalize(collectBrand)
		if !brands.Valid(list, brand) {
			return fmt.Errorf("%q is not a known brand, see \"ratings brands\"", collectBrand)
		}

		result, err := a.collect(cmd.Context(), brand, collectLocation)
		if err != nil {
			return err
		}
		renderResult(a.out, result)

		for _, n := range collectPlots {
			path, err := plot.Render(n, result.Metrics, a.cfg.Output.PlotDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "wrote", path)
		}
		return nil
	},
}
