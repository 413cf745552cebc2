// Package config holds the settings of the program. Settings come from
// built-in defaults, an optional YAML file and command line flags, in that
// order of precedence from lowest to highest.
package config

import (
	"bytes"
	"flag"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the program configuration.
type Config struct {

	// Width and Height are the initial size of the window.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Title is the window title and the Vulkan application name.
	Title string `yaml:"title"`

	// Debug enables the Vulkan validation layers and debug logging.
	Debug bool `yaml:"debug"`

	// ValidationLayers is the list of instance layers enabled when Debug is
	// set.
	ValidationLayers []string `yaml:"validation_layers"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:  800,
		Height: 600,
		Title:  "Vulkan Triangle",
		ValidationLayers: []string{
			"VK_LAYER_KHRONOS_validation",
		},
	}
}

// Load reads a YAML document from r. Keys missing from the document keep
// their default values. Unknown keys are an error.
func Load(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "decoding configuration")
	}

	return cfg, nil
}

// LoadFile reads the YAML configuration file at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading configuration")
	}

	cfg, err := Load(bytes.NewReader(data))
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading %s", path)
	}
	return cfg, nil
}

// Parse builds the configuration from command line arguments, not including
// the program name. The -config flag names a YAML file which is loaded before
// the remaining flags are applied on top of it.
func Parse(name string, args []string, output io.Writer) (Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	defaults := Default()
	var (
		path  = fs.String("config", "", "YAML configuration file")
		flags Config
	)
	fs.IntVar(&flags.Width, "width", defaults.Width, "Initial window width")
	fs.IntVar(&flags.Height, "height", defaults.Height, "Initial window height")
	fs.StringVar(&flags.Title, "title", defaults.Title, "Window title")
	fs.BoolVar(&flags.Debug, "debug", defaults.Debug, "Enable Vulkan validation layers")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := defaults
	if *path != "" {
		loaded, err := LoadFile(*path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = flags.Width
		case "height":
			cfg.Height = flags.Height
		case "title":
			cfg.Title = flags.Title
		case "debug":
			cfg.Debug = flags.Debug
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can be used.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	if c.Title == "" {
		return errors.New("window title must not be empty")
	}
	if c.Debug && len(c.ValidationLayers) == 0 {
		return errors.New("debug mode needs at least one validation layer")
	}
	return nil
}
