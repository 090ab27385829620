package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(brandsCmd)
}

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "Lists the brands that can be collected.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFromState(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.listBrands(cmd.Context())
		if err != nil {
			return err
		}
		renderBrands(a.out, list)
		return nil
	},
}
