package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sznuper/bettertiles/internal/painter"
	"github.com/sznuper/bettertiles/internal/view"
)

var renderCmd = &cobra.Command{
	Use:   "render <view>",
	Short: "Render a view to HTML",
	Long:  "Renders a configured view as a standalone HTML page. Rows are fetched from Livestatus unless --rows points at a saved YAML/JSON row list.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rowsFile, _ := cmd.Flags().GetString("rows")
		outFile, _ := cmd.Flags().GetString("out")
		logger := setupLogger()

		rt, err := loadRuntime(cmd, logger)
		if err != nil {
			return err
		}

		var rows []painter.Row
		if rowsFile != "" {
			rows, err = view.LoadRows(rowsFile)
			if err != nil {
				return err
			}
		}

		out := io.Writer(os.Stdout)
		if outFile != "" {
			f, err := os.Create(outFile)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			defer f.Close()
			out = f
		}

		title := args[0]
		if v := rt.views.FindView(args[0]); v != nil && v.Title != "" {
			title = v.Title
		}
		res := writeDocument(out, title, func(w io.Writer) view.Result {
			return rt.views.Render(context.Background(), w, args[0], rows, rt.cfg.User)
		})
		if res.Err != nil {
			return fmt.Errorf("%s: %w", res.ErrStage, res.Err)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().String("rows", "", "render rows from this YAML/JSON file instead of querying Livestatus")
	renderCmd.Flags().StringP("out", "o", "", "write HTML to this file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}
