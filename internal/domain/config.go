package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Download  DownloadConfig  `mapstructure:"download"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	History   HistoryConfig   `mapstructure:"history"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`

	// TrustedProxies lists the IPs or CIDRs whose forwarding headers are
	// believed. Empty means client addresses come from the connection only.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// ExtractorConfig configures the yt-dlp subprocess
type ExtractorConfig struct {
	Binary     string        `mapstructure:"binary"`
	CookieFile string        `mapstructure:"cookie_file"`
	ExtraArgs  []string      `mapstructure:"extra_args"`
	Timeout    time.Duration `mapstructure:"timeout"` // 0 means no limit
}

// DownloadConfig contains download workspace configuration
type DownloadConfig struct {
	TempDir        string `mapstructure:"temp_dir"` // empty uses the OS temp dir
	TitleByteLimit int    `mapstructure:"title_byte_limit"`
}

// RateLimitConfig limits how often one client may hit the extraction routes
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	Burst    int           `mapstructure:"burst"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// HistoryConfig configures the optional request history store
type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DatabasePath string `mapstructure:"database_path"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              5050,
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   30 * time.Second,
		},
		Extractor: ExtractorConfig{
			Binary: "yt-dlp",
		},
		Download: DownloadConfig{
			TempDir:        "",
			TitleByteLimit: 200,
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 30,
			Window:   time.Minute,
			Burst:    10,
			TTL:      10 * time.Minute,
		},
		History: HistoryConfig{
			Enabled:      false,
			DatabasePath: "$HOME/.youtubesave/history.db",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
