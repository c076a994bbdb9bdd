package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ennovatis-konverter/internal/header"
)

// headerCmd prints the converted form of header strings, one per line.
var headerCmd = &cobra.Command{
	Use:   "header TEXT...",
	Short: "Show how header texts are converted",
	Example: `  konverter header "Außentemperatur, °C, Zone1, extra"
  Aussentemperatur, °C`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t := header.NewTransformer(header.Options{
			FoldUppercase: appConfig.Header.FoldUppercaseUmlauts,
			NormalizeNFC:  appConfig.Header.NormalizeUnicode,
		})
		for _, arg := range args {
			fmt.Fprintln(cmd.OutOrStdout(), t.Transform(arg))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(headerCmd)
}
