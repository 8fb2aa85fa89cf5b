package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the bettertiles configuration",
	Long:  "Loads the configuration and resolves every view's layout, painters and links without contacting Livestatus.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger()

		rt, err := loadRuntime(cmd, logger)
		if err != nil {
			return err
		}

		failed := 0
		for _, v := range rt.cfg.Views {
			if err := checkView(rt, v.Name); err != nil {
				fmt.Printf("✗ View: %s\n  Error: %s\n", v.Name, err)
				failed++
				continue
			}
			fmt.Printf("✓ View: %s (%s, %d columns)\n", v.Name, v.Layout, len(v.Columns))
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d views are invalid", failed, len(rt.cfg.Views))
		}
		fmt.Printf("%s is valid\n", rt.path)
		return nil
	},
}

func checkView(rt *runtime, name string) error {
	v := rt.views.FindView(name)
	if _, ok := rt.layouts.Lookup(v.Layout); !ok {
		return fmt.Errorf("unknown layout %q", v.Layout)
	}
	if _, err := rt.views.Cells(v.GroupBy); err != nil {
		return err
	}
	if _, err := rt.views.Cells(v.Columns); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
