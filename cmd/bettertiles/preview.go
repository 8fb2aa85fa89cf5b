package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sznuper/bettertiles/internal/painter"
	"github.com/sznuper/bettertiles/internal/preview"
	"github.com/sznuper/bettertiles/internal/view"
)

var previewCmd = &cobra.Command{
	Use:   "preview <view>",
	Short: "Show a view as tiles in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rowsFile, _ := cmd.Flags().GetString("rows")
		perLine, _ := cmd.Flags().GetInt("per-line")
		logger := setupLogger()

		rt, err := loadRuntime(cmd, logger)
		if err != nil {
			return err
		}

		v := rt.views.FindView(args[0])
		if v == nil {
			return fmt.Errorf("view %q not found in config", args[0])
		}
		groupCells, err := rt.views.Cells(v.GroupBy)
		if err != nil {
			return err
		}
		cells, err := rt.views.Cells(v.Columns)
		if err != nil {
			return err
		}

		var rows []painter.Row
		if rowsFile != "" {
			rows, err = view.LoadRows(rowsFile)
		} else {
			rows, err = view.Fetch(context.Background(), rt.client, v.Datasource, view.Columns(groupCells, cells))
		}
		if err != nil {
			return err
		}

		color := isatty.IsTerminal(os.Stdout.Fd())
		if err := preview.Render(os.Stdout, rows, groupCells, cells, preview.Options{PerLine: perLine, Color: color}); err != nil {
			return err
		}
		if color {
			fmt.Println(preview.Legend())
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().String("rows", "", "preview rows from this YAML/JSON file instead of querying Livestatus")
	previewCmd.Flags().Int("per-line", 4, "tiles per line")
	rootCmd.AddCommand(previewCmd)
}
