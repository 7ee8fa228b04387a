// Package config handles application configuration and command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/joe/file-tree/pkg/filesystem"
)

// DefaultConfigPath is read when --config is not given. A missing file is not an error.
const DefaultConfigPath = "~/.config/file-tree/config.yaml"

const defaultDoubleClickMs = 400

// Errors returned by validation.
var (
	ErrRootRequired       = errors.New("root path is required")
	ErrInvalidDoubleClick = errors.New("double click interval must be positive")
)

// IconSet selects the glyphs drawn next to tree rows.
type IconSet int

const (
	// IconsUnicode uses plain Unicode triangles and bullets
	IconsUnicode IconSet = iota
	// IconsASCII uses only ASCII characters
	IconsASCII
	// IconsNerdFont uses Nerd Font file and folder glyphs
	IconsNerdFont
)

// String returns the string representation of IconSet
func (s IconSet) String() string {
	switch s {
	case IconsUnicode:
		return "unicode"
	case IconsASCII:
		return "ascii"
	case IconsNerdFont:
		return "nerd"
	default:
		return "unknown"
	}
}

// ParseIconSet parses a string into an IconSet
func ParseIconSet(s string) (IconSet, error) {
	switch strings.ToLower(s) {
	case "unicode", "":
		return IconsUnicode, nil
	case "ascii":
		return IconsASCII, nil
	case "nerd", "nerdfont", "nerd-font":
		return IconsNerdFont, nil
	default:
		return IconsUnicode, fmt.Errorf("invalid icon set: %s (valid: unicode, ascii, nerd)", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg and yaml
func (s *IconSet) UnmarshalText(text []byte) error {
	parsed, err := ParseIconSet(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// Config holds the application configuration
//
//nolint:lll // Struct tags carry the CLI help text
type Config struct {
	Root            string   `arg:"positional" help:"directory or sftp://user@host[:port]/path to browse (prompted for when omitted)"`
	ShowHidden      bool     `arg:"-a,--hidden" help:"show entries whose name starts with a dot"`
	NoExtensions    bool     `arg:"--no-extensions" help:"hide file extensions"`
	CaseInsensitive bool     `arg:"-i,--case-insensitive" help:"sort names ignoring case"`
	Ignore          []string `arg:"-x,--ignore,separate" help:"hide entries matching this glob (repeatable, ** supported)"`
	ForwardSelect   bool     `arg:"--forward-select" help:"report every selection in the activity log, not only activations"`
	Pick            bool     `arg:"-p,--pick" help:"print the activated path and exit"`
	Icons           IconSet  `arg:"--icons" help:"icon set: unicode|ascii|nerd"`
	DoubleClickMs   int      `arg:"--double-click-ms" help:"double click interval in milliseconds"`
	LogPath         string   `arg:"--log" help:"write a debug log of scans to this file"`
	ConfigPath      string   `arg:"-c,--config" help:"YAML file with default settings"`
	KnownHosts      string   `arg:"--known-hosts" help:"known_hosts file used to verify SFTP servers"`
	InsecureHostKey bool     `arg:"--insecure-host-key" help:"do not verify SFTP host keys"`

	// InteractiveMode is set when no root was given and the program should prompt for one.
	InteractiveMode bool `arg:"-"`
}

// fileConfig is the on-disk shape of the YAML defaults file.
type fileConfig struct {
	ShowHidden      *bool    `yaml:"show_hidden"`
	ShowExtensions  *bool    `yaml:"show_extensions"`
	CaseSensitive   *bool    `yaml:"case_sensitive"`
	Ignore          []string `yaml:"ignore"`
	ForwardSelect   *bool    `yaml:"forward_select"`
	Icons           *IconSet `yaml:"icons"`
	DoubleClickMs   int      `yaml:"double_click_ms"`
	LogPath         string   `yaml:"log"`
	KnownHosts      string   `yaml:"known_hosts"`
	InsecureHostKey *bool    `yaml:"insecure_host_key"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Browse a local or SFTP directory tree in the terminal"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "file-tree 1.0.0"
}

// DoubleClickInterval returns the configured interval as a duration.
func (cfg *Config) DoubleClickInterval() time.Duration {
	return time.Duration(cfg.DoubleClickMs) * time.Millisecond
}

// Defaults returns a configuration with built-in default values.
func Defaults() *Config {
	return &Config{
		Icons:         IconsUnicode,
		DoubleClickMs: defaultDoubleClickMs,
	}
}

// ParseFlags parses os.Args, layered over the YAML defaults file, and returns configuration.
// It exits the process for --help, --version and usage errors.
func ParseFlags() (*Config, error) {
	cfg := Defaults()

	fileIgnore, err := cfg.LoadFile(configPathFromArgs(os.Args[1:]))
	if err != nil {
		return nil, err
	}

	arg.MustParse(cfg)

	cfg.Ignore = append(fileIgnore, cfg.Ignore...)

	return PostProcessConfig(cfg)
}

// Parse is ParseFlags for an explicit argument list, returning errors instead of exiting.
func Parse(args []string) (*Config, error) {
	cfg := Defaults()

	fileIgnore, err := cfg.LoadFile(configPathFromArgs(args))
	if err != nil {
		return nil, err
	}

	parser, err := arg.NewParser(arg.Config{Program: "file-tree"}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build argument parser: %w", err)
	}

	if err := parser.Parse(args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	cfg.Ignore = append(fileIgnore, cfg.Ignore...)

	return PostProcessConfig(cfg)
}

// LoadFile applies the YAML defaults file at path to cfg and returns its ignore
// patterns, which are merged after flag parsing. An empty path means
// DefaultConfigPath, whose absence is not an error.
func (cfg *Config) LoadFile(path string) ([]string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path %s: %w", path, err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read config file %s: %w", expanded, err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", expanded, err)
	}

	file.applyTo(cfg)

	return file.Ignore, nil
}

func (f fileConfig) applyTo(cfg *Config) {
	if f.ShowHidden != nil {
		cfg.ShowHidden = *f.ShowHidden
	}

	if f.ShowExtensions != nil {
		cfg.NoExtensions = !*f.ShowExtensions
	}

	if f.CaseSensitive != nil {
		cfg.CaseInsensitive = !*f.CaseSensitive
	}

	if f.ForwardSelect != nil {
		cfg.ForwardSelect = *f.ForwardSelect
	}

	if f.Icons != nil {
		cfg.Icons = *f.Icons
	}

	if f.DoubleClickMs != 0 {
		cfg.DoubleClickMs = f.DoubleClickMs
	}

	if f.LogPath != "" {
		cfg.LogPath = f.LogPath
	}

	if f.KnownHosts != "" {
		cfg.KnownHosts = f.KnownHosts
	}

	if f.InsecureHostKey != nil {
		cfg.InsecureHostKey = *f.InsecureHostKey
	}
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	// Without a root, prompt for one
	cfg.InteractiveMode = cfg.Root == ""

	if cfg.DoubleClickMs <= 0 {
		return nil, ErrInvalidDoubleClick
	}

	for _, pattern := range cfg.Ignore {
		if err := ValidateIgnorePattern(pattern); err != nil {
			return nil, err
		}
	}

	for _, path := range []*string{&cfg.LogPath, &cfg.KnownHosts} {
		expanded, err := homedir.Expand(*path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %s: %w", *path, err)
		}

		*path = expanded
	}

	if !cfg.InteractiveMode {
		if err := cfg.ValidateRoot(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ValidateRoot checks that the root is present and, for SFTP roots, well formed.
// Whether a local root exists is left to tree construction.
func (cfg *Config) ValidateRoot() error {
	if strings.TrimSpace(cfg.Root) == "" {
		return ErrRootRequired
	}

	if _, err := filesystem.ParsePath(cfg.Root); err != nil {
		return fmt.Errorf("invalid root %s: %w", cfg.Root, err)
	}

	return nil
}

// ConnectOptions returns the SFTP settings for filesystem.Open.
func (cfg *Config) ConnectOptions() filesystem.ConnectOptions {
	return filesystem.ConnectOptions{
		KnownHostsPath:        cfg.KnownHosts,
		InsecureIgnoreHostKey: cfg.InsecureHostKey,
	}
}

// ValidateIgnorePattern rejects malformed glob patterns.
func ValidateIgnorePattern(pattern string) error {
	if pattern == "" {
		return errors.New("ignore pattern cannot be empty")
	}

	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid ignore pattern: %s", pattern)
	}

	return nil
}

// configPathFromArgs finds --config/-c ahead of full parsing, since the file
// supplies defaults the flags then override.
func configPathFromArgs(args []string) string {
	for i, a := range args {
		switch {
		case a == "--":
			return ""
		case a == "--config" || a == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		}
	}

	return ""
}
