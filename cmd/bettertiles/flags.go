package main

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sznuper/bettertiles/internal/config"
)

// registerOptionFlags adds a persistent --livestatus-<key> flag for every
// field in config.Livestatus, deriving the name from the yaml struct tag
// (snake_case → kebab-case).
func registerOptionFlags(cmd *cobra.Command) {
	t := reflect.TypeOf(config.Livestatus{})
	for i := range t.NumField() {
		yamlTag := t.Field(i).Tag.Get("yaml")
		cmd.PersistentFlags().String(optionFlagName(yamlTag), "", "override livestatus."+yamlTag)
	}
}

// applyOptionFlags overlays CLI flag values onto the config. Only flags
// explicitly set by the user are applied.
func applyOptionFlags(cmd *cobra.Command, cfg *config.Config) error {
	t := reflect.TypeOf(cfg.Livestatus)
	v := reflect.ValueOf(&cfg.Livestatus).Elem()
	for i := range t.NumField() {
		yamlTag := t.Field(i).Tag.Get("yaml")
		flagName := optionFlagName(yamlTag)
		if !cmd.Flags().Changed(flagName) {
			continue
		}
		val, _ := cmd.Flags().GetString(flagName)

		switch field := v.Field(i); field.Interface().(type) {
		case string:
			field.SetString(val)
		case config.Duration:
			d, err := time.ParseDuration(val)
			if err != nil {
				return fmt.Errorf("--%s: %w", flagName, err)
			}
			field.Set(reflect.ValueOf(config.Duration{Duration: d}))
		}
	}
	return config.Validate(cfg)
}

func optionFlagName(yamlTag string) string {
	return "livestatus-" + strings.ReplaceAll(yamlTag, "_", "-")
}
