package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sznuper/bettertiles/internal/config"
)

const starterConfig = `livestatus:
  address: unix://${OMD_ROOT}/tmp/run/live
  timeout: 10s

user:
  name: ${USER}
  permissions:
    - general.act

views:
  - name: hostgroup_tiles
    title: Host groups
    layout: better_tiles
    datasource: hostgroups
    columns:
      - painter: hostgroup_status_alias
        link:
          view: hostgroup
          params:
            hostgroup: '{{ .hostgroup_name }}'
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new bettertiles configuration",
	Long:  "Writes a starter config with a host group tile view to --config, or to the first default config location.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		path := cfgFile
		if path == "" {
			path = config.DefaultConfigPaths()[0]
		}
		if err := writeStarter(path, force); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func writeStarter(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}
