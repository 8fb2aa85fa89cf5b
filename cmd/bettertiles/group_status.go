package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sznuper/bettertiles/internal/painter"
)

var groupStatusCmd = &cobra.Command{
	Use:   "group-status <hostgroup>",
	Short: "Show the status label of a host group",
	Long:  "Runs the hostgroup_status_alias painter for one host group and prints the resulting style class and content.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		alias, _ := cmd.Flags().GetString("alias")
		logger := setupLogger()

		rt, err := loadRuntime(cmd, logger)
		if err != nil {
			return err
		}

		row := painter.Row{"hostgroup_name": args[0]}
		if alias != "" {
			row["hostgroup_alias"] = alias
		}

		css, content := painter.NewHostGroupStatusAlias(rt.client, logger).Render(row)
		fmt.Printf("Class:   %q\n", css)
		fmt.Printf("Content: %s\n", content)
		return nil
	},
}

func init() {
	groupStatusCmd.Flags().String("alias", "", "host group alias (defaults to the name)")
	rootCmd.AddCommand(groupStatusCmd)
}
