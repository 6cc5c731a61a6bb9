// Package config loads and validates the gateway configuration.
package config

import (
	_ "embed"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	RequestLogName    = "requests.log"
)

// Route is one operator-supplied route binding.
type Route struct {
	// Route is a spec of the form "[METHOD ]/path", e.g. "GET /user/:id".
	Route string `json:"route" validate:"required"`
	// Command is the shell command bound to the route.
	Command string `json:"command" validate:"required"`
}

type Configuration struct {
	configFs afero.Fs

	Port         int    `json:"port" validate:"gte=0,lte=65535"`
	LogLevel     string `json:"log_level" validate:"omitempty,oneof=error warn info debug"`
	Shell        string `json:"shell" validate:"omitempty,oneof=bash zsh fish sh"`
	HeaderFormat string `json:"header_format" validate:"omitempty,oneof=assoc json"`
	QueryFormat  string `json:"query_format" validate:"omitempty,oneof=assoc json"`

	Routes []Route `json:"routes"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// SetFs overrides the configuration directory filesystem. Primarily for
// tests that must not touch the real disk.
func (c *Configuration) SetFs(fsys afero.Fs) {
	c.configFs = fsys
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		c.configFs = afero.NewBasePathFs(afero.NewOsFs(), ".")
	}
	return c.configFs
}

// OpenRequestLog opens the request event log in an append only state.
func (c *Configuration) OpenRequestLog() (afero.File, error) {
	return c.fs().OpenFile(RequestLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadRequestLog opens the request event log for reading.
func (c *Configuration) ReadRequestLog() (afero.File, error) {
	return c.fs().OpenFile(RequestLogName, os.O_RDONLY, 0600)
}

// New returns a minimal configuration for flag-only operation: no routes and
// no shell preference, listening on the default port.
func New() *Configuration {
	return &Configuration{
		Port:     8080,
		LogLevel: "info",
	}
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
