package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jedisct1/dlog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Capacity       int     `toml:"capacity"`
	QueueSize      int     `toml:"queue_size"`
	Workers        int     `toml:"workers"`
	Ops            int     `toml:"ops"`
	Keys           int     `toml:"keys"`
	ReadRatio      float64 `toml:"read_ratio"`
	Seed           int64   `toml:"seed"`
	LogLevel       int     `toml:"log_level"`
	LogFile        *string `toml:"log_file"`
	UseSyslog      bool    `toml:"use_syslog"`
	LogMaxSize     int     `toml:"log_files_max_size"`
	LogMaxAge      int     `toml:"log_files_max_age"`
	LogMaxBackups  int     `toml:"log_files_max_backups"`
	EvictionLog    string  `toml:"eviction_log"`
	MetricsAddress string  `toml:"metrics_address"`
}

func newConfig() Config {
	return Config{
		Capacity:      1024,
		QueueSize:     1024,
		Workers:       4,
		Ops:           100000,
		Keys:          512,
		ReadRatio:     0.8,
		Seed:          1,
		LogLevel:      -1,
		LogMaxSize:    10,
		LogMaxAge:     7,
		LogMaxBackups: 1,
	}
}

// LoadConfig reads a TOML file over the defaults. An empty path keeps the
// defaults.
func LoadConfig(path string) (Config, error) {
	config := newConfig()
	if path == "" {
		return config, config.validate()
	}
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return config, fmt.Errorf("unable to load [%s]: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return config, fmt.Errorf("unsupported key(s) in [%s]: %s", path, strings.Join(keys, ", "))
	}
	return config, config.validate()
}

func (config *Config) validate() error {
	switch {
	case config.Capacity <= 0:
		return errors.New("capacity must be positive")
	case config.Workers <= 0:
		return errors.New("workers must be positive")
	case config.Ops < 0:
		return errors.New("ops cannot be negative")
	case config.Keys <= 0:
		return errors.New("keys must be positive")
	case config.ReadRatio < 0 || config.ReadRatio > 1:
		return fmt.Errorf("read_ratio must be within [0, 1], got %v", config.ReadRatio)
	}
	return nil
}

func configureLogging(config *Config) {
	if config.LogLevel >= 0 && config.LogLevel < int(dlog.SeverityLast) {
		dlog.SetLogLevel(dlog.Severity(config.LogLevel))
	}
	if config.UseSyslog {
		dlog.UseSyslog(true)
	} else if config.LogFile != nil {
		dlog.UseLogFile(*config.LogFile)
	}
}

// Logger returns a writer for fileName, rotated unless it is stdout or
// not a regular file.
func Logger(config *Config, fileName string) io.Writer {
	if fileName == "/dev/stdout" {
		return os.Stdout
	}
	if st, _ := os.Stat(fileName); st != nil && !st.Mode().IsRegular() {
		if st.Mode().IsDir() {
			dlog.Fatalf("[%v] is a directory", fileName)
		}
		fp, err := os.OpenFile(fileName, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			dlog.Fatalf("Unable to access [%v]: [%v]", fileName, err)
		}
		return fp
	}
	return &lumberjack.Logger{
		LocalTime:  true,
		MaxSize:    config.LogMaxSize,
		MaxAge:     config.LogMaxAge,
		MaxBackups: config.LogMaxBackups,
		Filename:   fileName,
		Compress:   true,
	}
}
