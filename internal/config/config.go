// =============================================================================
// Ennovatis Header Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the converter
// settings.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults (see setDefaults)
//   2. The YAML configuration file (konverter.yaml, or --config)
//   3. A .env file in the working directory
//   4. Environment variables prefixed with KONVERTER_
//      (nested keys use "_", e.g. KONVERTER_CSV_ENCODING=windows-1252)
//   5. Command-line flags bound with BindFlag
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "KONVERTER"

// DefaultFile is the configuration file used when --config is not given.
const DefaultFile = "konverter.yaml"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the converter settings.
type Config struct {
	// ConvertedDirSuffix is appended to the chosen root folder to form the
	// output root of a batch run.
	// Default: "_converted"
	ConvertedDirSuffix string `mapstructure:"converted_dir_suffix" yaml:"converted_dir_suffix"`

	// FileSuffix is inserted before the extension in single-file mode.
	// Default: "_geändert"
	FileSuffix string `mapstructure:"file_suffix" yaml:"file_suffix"`

	// DiscoverExtensions lists the extensions a batch run picks up.
	// Matching is case-sensitive.
	// Default: [".csv"]
	DiscoverExtensions []string `mapstructure:"discover_extensions" yaml:"discover_extensions"`

	// CSV contains settings for reading and writing CSV files.
	CSV CSVSettings `mapstructure:"csv" yaml:"csv"`

	// Header contains the optional header transformation switches.
	Header HeaderSettings `mapstructure:"header" yaml:"header"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// LogFormat selects the log handler.
	// Valid values: "text", "json"
	// Default: "text"
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// PauseOnExit waits for Enter before exiting when stdin is a terminal,
	// after a failed run or an interactive run.
	// Default: true
	PauseOnExit bool `mapstructure:"pause_on_exit" yaml:"pause_on_exit"`
}

// CSVSettings contains settings for CSV files.
type CSVSettings struct {
	// Delimiter separates fields on input and output.
	// Common values: ";" (semicolon), "," (comma), "|" (pipe), "tab"
	// Default: ";"
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// Encoding is the character encoding of input files.
	// Supported: "utf-8", "windows-1252", "iso-8859-1", "iso-8859-15"
	// Output is always UTF-8.
	// Default: "utf-8"
	Encoding string `mapstructure:"encoding" yaml:"encoding"`

	// LineTerminator ends every output record.
	// Accepts "lf", "crlf", or an escaped string such as "\r\n".
	// Default: "" (CRLF on Windows, LF elsewhere)
	LineTerminator string `mapstructure:"line_terminator" yaml:"line_terminator"`
}

// HeaderSettings contains the opt-in header transformation switches.
type HeaderSettings struct {
	// FoldUppercaseUmlauts also replaces Ä, Ö and Ü.
	// Default: false
	FoldUppercaseUmlauts bool `mapstructure:"fold_uppercase_umlauts" yaml:"fold_uppercase_umlauts"`

	// NormalizeUnicode composes decomposed characters before substitution.
	// Default: false
	NormalizeUnicode bool `mapstructure:"normalize_unicode" yaml:"normalize_unicode"`
}

// =============================================================================
// LOADER
// =============================================================================

// Loader reads the configuration through Viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader with defaults and environment overrides applied.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// setDefaults registers the default value of every key.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("converted_dir_suffix", d.ConvertedDirSuffix)
	v.SetDefault("file_suffix", d.FileSuffix)
	v.SetDefault("discover_extensions", d.DiscoverExtensions)
	v.SetDefault("csv.delimiter", d.CSV.Delimiter)
	v.SetDefault("csv.encoding", d.CSV.Encoding)
	v.SetDefault("csv.line_terminator", d.CSV.LineTerminator)
	v.SetDefault("header.fold_uppercase_umlauts", d.Header.FoldUppercaseUmlauts)
	v.SetDefault("header.normalize_unicode", d.Header.NormalizeUnicode)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("pause_on_exit", d.PauseOnExit)
}

// BindFlag lets a command-line flag override key when the flag is set.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag to bind for %q", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads the configuration file at path and returns the validated
// configuration.
//
// PARAMETERS:
//   - path: The path to the YAML file. Empty means defaults only.
//   - required: When false, a missing file is not an error.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read or parsed, or fails validation.
func (l *Loader) Load(path string, required bool) (*Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
		l.v.SetConfigType("yaml")

		if err := l.v.ReadInConfig(); err != nil {
			if required || !isNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isNotExist reports whether err says the config file is missing.
func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// LoadDotEnv loads variables from a .env file into the process environment.
// A missing file is ignored; variables already set are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Default returns the configuration with every key at its default value.
func Default() *Config {
	return &Config{
		ConvertedDirSuffix: "_converted",
		FileSuffix:         "_geändert",
		DiscoverExtensions: []string{".csv"},
		CSV: CSVSettings{
			Delimiter: ";",
			Encoding:  "utf-8",
		},
		LogLevel:    "info",
		LogFormat:   "text",
		PauseOnExit: true,
	}
}

// YAML renders the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for values the converter cannot use.
func (c *Config) Validate() error {
	if c.ConvertedDirSuffix == "" {
		return fmt.Errorf("%w: converted_dir_suffix must not be empty", ErrInvalid)
	}
	if strings.ContainsAny(c.ConvertedDirSuffix, `/\`) {
		return fmt.Errorf("%w: converted_dir_suffix must not contain a path separator", ErrInvalid)
	}
	if c.FileSuffix == "" {
		return fmt.Errorf("%w: file_suffix must not be empty", ErrInvalid)
	}
	if strings.ContainsAny(c.FileSuffix, `/\`) {
		return fmt.Errorf("%w: file_suffix must not contain a path separator", ErrInvalid)
	}

	if len(c.DiscoverExtensions) == 0 {
		return fmt.Errorf("%w: discover_extensions must list at least one extension", ErrInvalid)
	}
	for _, ext := range c.DiscoverExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalid, ext)
		}
	}

	if _, err := c.CSV.Comma(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := c.CSV.Decoder(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := c.CSV.Terminator(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalid, c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalid, c.LogFormat)
	}

	return nil
}

// =============================================================================
// CSV SETTINGS HELPERS
// =============================================================================

// Comma returns the delimiter as a rune.
func (s CSVSettings) Comma() (rune, error) {
	switch s.Delimiter {
	case "\\t", "tab", "TAB":
		return '\t', nil
	case "|", "pipe", "PIPE":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	case ",", "comma":
		return ',', nil
	}

	if utf8.RuneCountInString(s.Delimiter) != 1 {
		return 0, fmt.Errorf("delimiter %q must be a single character", s.Delimiter)
	}

	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("delimiter %q is not allowed", s.Delimiter)
	}
	return r, nil
}

// IsUTF8 reports whether input files are read as UTF-8.
func (s CSVSettings) IsUTF8() bool {
	switch normalizeEncoding(s.Encoding) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

func normalizeEncoding(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}

// Decoder returns the text encoding of input files.
// UTF-8 input may start with a byte order mark; it is stripped.
func (s CSVSettings) Decoder() (encoding.Encoding, error) {
	switch normalizeEncoding(s.Encoding) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15", "latin9", "latin-9":
		return charmap.ISO8859_15, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", s.Encoding)
	}
}

// Terminator returns the output line terminator.
func (s CSVSettings) Terminator() (string, error) {
	switch strings.ToLower(s.LineTerminator) {
	case "":
		if runtime.GOOS == "windows" {
			return "\r\n", nil
		}
		return "\n", nil
	case "lf", "\\n", "\n":
		return "\n", nil
	case "crlf", "\\r\\n", "\r\n":
		return "\r\n", nil
	case "cr", "\\r", "\r":
		return "\r", nil
	default:
		return "", fmt.Errorf("unsupported line terminator %q", s.LineTerminator)
	}
}
