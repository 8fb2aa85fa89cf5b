package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sznuper/bettertiles/internal/layout"
	"github.com/sznuper/bettertiles/internal/painter"
)

var paintersCmd = &cobra.Command{
	Use:   "painters",
	Short: "List the built-in painters",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reg := painter.Builtin(nil, nil)
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "IDENT\tSHORT\tTITLE")
		for _, id := range reg.Idents() {
			p, _ := reg.Lookup(id)
			fmt.Fprintf(tw, "%s\t%s\t%s\n", id, p.ShortTitle(), p.Title())
		}
		tw.Flush()
	},
}

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "List the available layouts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reg := layout.Builtin()
		for _, id := range reg.Idents() {
			l, _ := reg.Lookup(id)
			fmt.Printf("%s\t%s\n", id, l.Title())
		}
	},
}

func init() {
	rootCmd.AddCommand(paintersCmd, layoutsCmd)
}
