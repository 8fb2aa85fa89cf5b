package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/a8m/envsubst"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

type Config struct {
	Livestatus Livestatus `yaml:"livestatus"`
	User       User       `yaml:"user"`
	Listen     string     `yaml:"listen"`
	Painters   []Painter  `yaml:"painters" validate:"dive"`
	Views      []View     `yaml:"views" validate:"unique=Name,dive"`
}

type Livestatus struct {
	Address string   `yaml:"address" validate:"required"`
	Timeout Duration `yaml:"timeout"`
}

type User struct {
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

// May reports whether the configured user holds permission.
func (u User) May(permission string) bool {
	return slices.Contains(u.Permissions, permission)
}

// Painter defines a template painter.
type Painter struct {
	Name     string   `yaml:"name" validate:"required"`
	Title    string   `yaml:"title"`
	Template string   `yaml:"template" validate:"required"`
	Class    string   `yaml:"class"`
	Columns  []string `yaml:"columns"`
}

type View struct {
	Name       string `yaml:"name" validate:"required"`
	Title      string `yaml:"title"`
	Layout     string `yaml:"layout" validate:"required"`
	Datasource string `yaml:"datasource" validate:"required,oneof=hosts services hostgroups servicegroups"`
	GroupBy    []Cell `yaml:"group_by" validate:"dive"`
	Columns    []Cell `yaml:"columns" validate:"dive"`
}

// Cell is a painter placed into a view.
type Cell struct {
	Painter string `yaml:"painter" validate:"required"`
	Link    *Link  `yaml:"link"`
}

// UnmarshalYAML accepts either a plain painter name or a full object.
func (c *Cell) UnmarshalYAML(unmarshal func(any) error) error {
	var str string
	if err := unmarshal(&str); err == nil {
		c.Painter = str
		return nil
	}

	type cellAlias Cell
	var obj cellAlias
	if err := unmarshal(&obj); err != nil {
		return fmt.Errorf("cell: must be a painter name or an object with painter/link")
	}
	*c = Cell(obj)
	return nil
}

// Link points a cell at another view; param values are templates over the row.
type Link struct {
	View   string            `yaml:"view" validate:"required"`
	Params map[string]string `yaml:"params"`
}

// Duration is a time.Duration written as a string ("5s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return fmt.Errorf("duration: must be a string like \"5s\"")
	}
	if str == "" {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(str)
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	if v < 0 {
		return fmt.Errorf("duration: %s is negative", str)
	}
	d.Duration = v
	return nil
}

// FindView returns the view with the given name, or nil if not found.
func (c *Config) FindView(name string) *View {
	for i := range c.Views {
		if c.Views[i].Name == name {
			return &c.Views[i]
		}
	}
	return nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse expands env vars in data, decodes and validates it.
func Parse(data []byte) (*Config, error) {
	data, err := envsubst.Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("expanding env vars: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints on cfg.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "unique":
		return fmt.Sprintf("%s must have unique %s values", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
