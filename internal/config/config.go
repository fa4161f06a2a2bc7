package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeServe = "serve"
	ModeSplit = "split"
	ModePad   = "pad"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the letter splitting service
type Config struct {
	// Mode selects between the HTTP service and the one-shot CLI transforms
	Mode string // "serve", "split" or "pad"

	// Server configuration (serve mode)
	Host    string
	Port    int
	WorkDir string // base directory for per-request processing directories

	// One-shot configuration (split/pad modes)
	Input     string // source master PDF
	OutputDir string // directory for individual letters (split mode)
	Output    string // padded PDF path (pad mode)

	// Application configuration
	Version     string
	ServiceName string
	LogLevel    string
	LogJSON     bool
	MaxFileSize int64 // Maximum source PDF size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:        ModeServe,
		Host:        DefaultHost,
		Port:        DefaultPort,
		WorkDir:     filepath.Join(os.TempDir(), "lettersplit"),
		Version:     "1.0.0",
		ServiceName: "lettersplit",
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	for _, p := range []*string{&cfg.WorkDir, &cfg.Input, &cfg.OutputDir, &cfg.Output} {
		if *p == "" {
			continue
		}
		if expandedPath, err := filepath.Abs(*p); err == nil {
			*p = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("LETTERSPLIT")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("workdir", cfg.WorkDir)
	viper.SetDefault("input", cfg.Input)
	viper.SetDefault("outdir", cfg.OutputDir)
	viper.SetDefault("output", cfg.Output)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("logjson", cfg.LogJSON)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'serve' for the HTTP service, 'split' or 'pad' for one-shot processing")
	pflag.String("host", cfg.Host, "Server host address (serve mode only)")
	pflag.Int("port", cfg.Port, "Server port (serve mode only)")
	pflag.String("workdir", cfg.WorkDir, "Base directory for per-request processing directories (serve mode only)")
	pflag.String("input", cfg.Input, "Source master PDF (split/pad modes)")
	pflag.String("outdir", cfg.OutputDir, "Output directory for individual letters (split mode)")
	pflag.String("output", cfg.Output, "Output path for the duplex-padded PDF (pad mode)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Bool("logjson", cfg.LogJSON, "Emit JSON logs instead of console output")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum source PDF size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("workdir", pflag.Lookup("workdir"))
	_ = viper.BindPFlag("input", pflag.Lookup("input"))
	_ = viper.BindPFlag("outdir", pflag.Lookup("outdir"))
	_ = viper.BindPFlag("output", pflag.Lookup("output"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("logjson", pflag.Lookup("logjson"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nlettersplit - splits batch mail-merge PDFs into individual letters\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                                   # HTTP service on 127.0.0.1:8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=serve --host=0.0.0.0 --port=8081           # service on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=split --input=batch.pdf --outdir=letters   # split into individual letters\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=pad --input=batch.pdf --output=duplex.pdf  # duplex-padded copy\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  LETTERSPLIT_MODE         Run mode\n")
		fmt.Fprintf(os.Stderr, "  LETTERSPLIT_HOST         Server host\n")
		fmt.Fprintf(os.Stderr, "  LETTERSPLIT_PORT         Server port\n")
		fmt.Fprintf(os.Stderr, "  LETTERSPLIT_WORKDIR      Processing base directory\n")
		fmt.Fprintf(os.Stderr, "  LETTERSPLIT_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  LETTERSPLIT_MAXFILESIZE  Maximum file size\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.WorkDir = viper.GetString("workdir")
	cfg.Input = viper.GetString("input")
	cfg.OutputDir = viper.GetString("outdir")
	cfg.Output = viper.GetString("output")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.LogJSON = viper.GetBool("logjson")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeServe:
		if c.Port < 1 || c.Port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		if c.WorkDir == "" {
			return errors.New("work directory cannot be empty")
		}
		if err := ensureDir(c.WorkDir); err != nil {
			return err
		}
	case ModeSplit:
		if c.Input == "" {
			return errors.New("split mode requires --input")
		}
		if c.OutputDir == "" {
			return errors.New("split mode requires --outdir")
		}
		if err := ensureDir(c.OutputDir); err != nil {
			return err
		}
	case ModePad:
		if c.Input == "" {
			return errors.New("pad mode requires --input")
		}
		if c.Output == "" {
			return errors.New("pad mode requires --output")
		}
	default:
		return fmt.Errorf("invalid mode: %s (must be one of: serve, split, pad)", c.Mode)
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// ensureDir creates a directory when it does not already exist
func ensureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access directory %s: %w", dir, err)
	}
	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsServeMode returns true when running as the HTTP service
func (c *Config) IsServeMode() bool {
	return c.Mode == ModeServe
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, WorkDir: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.WorkDir, c.LogLevel, c.MaxFileSize)
}
