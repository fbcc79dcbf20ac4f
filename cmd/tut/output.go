package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/j-veylop/token-usage-tui/internal/api"
	"github.com/j-veylop/token-usage-tui/internal/config"
	"github.com/j-veylop/token-usage-tui/internal/format"
	"github.com/j-veylop/token-usage-tui/internal/logger"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(name string) error {
	switch name {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q: want text, json or yaml", name)
	}
}

// cliEnv is what a non-interactive command needs to talk to the backend.
type cliEnv struct {
	cfg       *config.Config
	client    *api.Client
	formatter *format.Formatter
	logCloser io.Closer
}

func newCLIEnv(baseURL string) (*cliEnv, error) {
	cfg, err := loadConfig(baseURL)
	if err != nil {
		return nil, err
	}
	f, err := format.New(cfg.Locale, cfg.Currency)
	if err != nil {
		return nil, err
	}
	return &cliEnv{
		cfg:       cfg,
		client:    api.New(cfg.APIBaseURL, api.WithTimeout(cfg.RequestTimeout)),
		formatter: f,
		logCloser: logger.Setup(logger.Options{File: cfg.LogFile, Level: cfg.LogLevel}),
	}, nil
}

func (e *cliEnv) Close() error {
	return e.logCloser.Close()
}

// encode writes v as indented JSON or YAML.
func encode(w io.Writer, output string, v any) error {
	switch output {
	case outputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
