package client

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML shape accepted by LoadConfigFile.
type FileConfig struct {
	Nodes []string `yaml:"nodes"`
	// RequestTimeout is a time.ParseDuration string, e.g. "30s".
	RequestTimeout    string  `yaml:"requestTimeout"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
	Bech32HRP         string  `yaml:"bech32Hrp"`
	GapLimit          int     `yaml:"gapLimit"`
}

// LoadConfigFile reads a YAML client configuration and returns an option
// function applying the non-zero settings, so file and programmatic
// configuration compose:
//
//	fileOpt, err := client.LoadConfigFile("client.yaml")
//	c, err := client.New(fileOpt, func(o *client.Options) { o.Logger = logger })
func LoadConfigFile(path string) (func(o *Options), error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var parsed FileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	var timeout time.Duration
	if parsed.RequestTimeout != "" {
		timeout, err = time.ParseDuration(parsed.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: requestTimeout: %w", path, err)
		}
	}

	return func(o *Options) {
		if len(parsed.Nodes) > 0 {
			o.Nodes = parsed.Nodes
		}
		if timeout > 0 {
			o.RequestTimeout = timeout
		}
		if parsed.RequestsPerSecond > 0 {
			o.RequestsPerSecond = parsed.RequestsPerSecond
		}
		if parsed.Burst > 0 {
			o.Burst = parsed.Burst
		}
		if parsed.Bech32HRP != "" {
			o.Bech32HRP = parsed.Bech32HRP
		}
		if parsed.GapLimit > 0 {
			o.GapLimit = parsed.GapLimit
		}
	}, nil
}
