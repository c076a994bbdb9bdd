// =============================================================================
// Ennovatis Header Converter - Files Command
// =============================================================================
//
// This file defines the 'files' command, the single-file conversion. Each
// file is written next to the original with a suffix before the extension.
//
// COMMAND USAGE:
//   konverter files [FILE...]
//
// EXAMPLE:
//   report.xlsx  ->  report_geändert.xlsx
//   old.xls      ->  old_geändert.xlsx
//
// Without FILE arguments a file browser opens.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ennovatis-konverter/internal/converter"
	"github.com/ginjaninja78/ennovatis-konverter/internal/picker"
)

// filesCmd represents the 'files' command.
var filesCmd = &cobra.Command{
	Use:   "files [FILE...]",
	Short: "Convert single files",
	Long: `Convert each FILE and write the result next to it, with the file suffix
(default "_geändert") inserted before the extension. .xlsx and .xls files
are read as workbooks, everything else as CSV. .xls files are written as
.xlsx.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return runFiles(cmd, picker.Static{Files: args})
		}
		return runFiles(cmd, newTerminalPicker())
	},
}

// runFiles asks p for files and converts them.
func runFiles(cmd *cobra.Command, p picker.Picker) error {
	ctx := cmd.Context()

	paths, err := p.PickFiles(ctx)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logger.Info("no files selected")
		return nil
	}

	c := converter.New(appConfig,
		converter.WithLogger(logger),
		converter.WithOutput(cmd.OutOrStdout()))

	_, err = c.ConvertFiles(ctx, paths)
	return err
}

// init registers the files command with the root command.
func init() {
	rootCmd.AddCommand(filesCmd)
}
