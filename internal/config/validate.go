package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"quill/internal/faults"
)

// Validate ensures the configuration is usable. Failures wrap faults.ErrConfiguration.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateAnalysis,
		c.validateDispatcher,
		c.validateJournal,
		c.validatePaths,
		c.validateLogging,
	} {
		if err := check(); err != nil {
			return fmt.Errorf("%w: %w", faults.ErrConfiguration, err)
		}
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.LongWordThreshold < 0 {
		return errors.New("analysis.long_word_threshold must be zero or greater")
	}
	negative := make(map[string]struct{}, len(c.Analysis.NegativeWords))
	for _, word := range c.Analysis.NegativeWords {
		negative[word] = struct{}{}
	}
	for _, word := range c.Analysis.PositiveWords {
		if _, ok := negative[word]; ok {
			return fmt.Errorf("analysis: %q is listed in both positive_words and negative_words", word)
		}
		if strings.ContainsAny(word, " \t.,!?;:") {
			return fmt.Errorf("analysis.positive_words: %q contains a token delimiter", word)
		}
	}
	for _, word := range c.Analysis.NegativeWords {
		if strings.ContainsAny(word, " \t.,!?;:") {
			return fmt.Errorf("analysis.negative_words: %q contains a token delimiter", word)
		}
	}
	return nil
}

func (c *Config) validateDispatcher() error {
	if c.Dispatcher.QueueSize < 1 {
		return errors.New("dispatcher.queue_size must be positive")
	}
	if c.Dispatcher.RequestTimeoutSeconds < 1 {
		return errors.New("dispatcher.request_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateJournal() error {
	if c.Journal.Retain < 0 {
		return errors.New("journal.retain must be zero or greater")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.APIBind == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
