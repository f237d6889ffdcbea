package app

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/TETRIX8/youtubesave/internal/domain"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. YOUTUBESAVE_SERVER_PORT
const EnvPrefix = "YOUTUBESAVE"

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	registerDefaults(v, config)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.youtubesave")
		v.AddConfigPath("/etc/youtubesave")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file, defaults and environment only
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// registerDefaults makes every key known to viper so environment variables
// are picked up by Unmarshal even when no config file sets them
func registerDefaults(v *viper.Viper, config *domain.Config) {
	v.SetDefault("server.host", config.Server.Host)
	v.SetDefault("server.port", config.Server.Port)
	v.SetDefault("server.read_header_timeout", config.Server.ReadHeaderTimeout)
	v.SetDefault("server.shutdown_timeout", config.Server.ShutdownTimeout)
	v.SetDefault("server.trusted_proxies", config.Server.TrustedProxies)

	v.SetDefault("extractor.binary", config.Extractor.Binary)
	v.SetDefault("extractor.cookie_file", config.Extractor.CookieFile)
	v.SetDefault("extractor.extra_args", config.Extractor.ExtraArgs)
	v.SetDefault("extractor.timeout", config.Extractor.Timeout)

	v.SetDefault("download.temp_dir", config.Download.TempDir)
	v.SetDefault("download.title_byte_limit", config.Download.TitleByteLimit)

	v.SetDefault("rate_limit.enabled", config.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests", config.RateLimit.Requests)
	v.SetDefault("rate_limit.window", config.RateLimit.Window)
	v.SetDefault("rate_limit.burst", config.RateLimit.Burst)
	v.SetDefault("rate_limit.ttl", config.RateLimit.TTL)

	v.SetDefault("history.enabled", config.History.Enabled)
	v.SetDefault("history.database_path", config.History.DatabasePath)

	v.SetDefault("logging.level", config.Logging.Level)
	v.SetDefault("logging.format", config.Logging.Format)
	v.SetDefault("logging.output_path", config.Logging.OutputPath)
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Download.TempDir = expandPath(config.Download.TempDir)
	config.Extractor.CookieFile = expandPath(config.Extractor.CookieFile)
	config.History.DatabasePath = expandPath(config.History.DatabasePath)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	for _, proxy := range config.Server.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("invalid trusted proxy: %q", proxy)
		}
	}

	if strings.TrimSpace(config.Extractor.Binary) == "" {
		return fmt.Errorf("extractor binary not configured")
	}

	if config.Extractor.Timeout < 0 {
		return fmt.Errorf("extractor timeout cannot be negative")
	}

	if config.Download.TitleByteLimit < 1 {
		return fmt.Errorf("title byte limit must be at least 1")
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests < 1 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit needs a positive request count and window")
	}

	if config.History.Enabled && config.History.DatabasePath == "" {
		return fmt.Errorf("history database path not configured")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}

// validProxy accepts a bare IP or a CIDR range
func validProxy(proxy string) bool {
	if strings.Contains(proxy, "/") {
		_, _, err := net.ParseCIDR(proxy)
		return err == nil
	}
	return net.ParseIP(proxy) != nil
}
