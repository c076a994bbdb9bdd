// =============================================================================
// Ennovatis Header Converter - Folder Command
// =============================================================================
//
// This file defines the 'folder' command, the batch conversion. Every
// matching file below ROOT is converted into a mirrored tree next to it.
//
// COMMAND USAGE:
//   konverter folder [ROOT]
//
// EXAMPLE:
//   data/a.csv       ->  data_converted/a.csv
//   data/sub/b.csv   ->  data_converted/sub/b.csv
//
// Without ROOT a folder browser opens.
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ennovatis-konverter/internal/converter"
	"github.com/ginjaninja78/ennovatis-konverter/internal/picker"
	"github.com/ginjaninja78/ennovatis-konverter/pkg/utils"
)

// folderCmd represents the 'folder' command.
var folderCmd = &cobra.Command{
	Use:   "folder [ROOT]",
	Short: "Convert every file below a folder",
	Long: `Convert every file below ROOT. The converted files are written to a folder
next to ROOT named ROOT_converted, keeping the sub-folder layout. The
original files are not changed.

The first file that fails to convert stops the run. Files written before
it are kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return runFolder(cmd, picker.Static{Folder: args[0]})
		}
		return runFolder(cmd, newTerminalPicker())
	},
}

// runFolder asks p for a folder and converts it.
func runFolder(cmd *cobra.Command, p picker.Picker) error {
	ctx := cmd.Context()

	root, ok, err := p.PickFolder(ctx)
	if err != nil {
		return err
	}
	if !ok {
		logger.Info("no folder selected")
		return nil
	}
	if !utils.IsDir(root) {
		return fmt.Errorf("%s is not a folder", root)
	}

	c := converter.New(appConfig,
		converter.WithLogger(logger),
		converter.WithOutput(cmd.OutOrStdout()))

	jobs, err := c.ConvertFolder(ctx, root)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		logger.Info("no files to convert",
			slog.String("root", root),
			slog.Any("extensions", appConfig.DiscoverExtensions))
	}

	return nil
}

// init registers the folder command with the root command.
func init() {
	rootCmd.AddCommand(folderCmd)
}
