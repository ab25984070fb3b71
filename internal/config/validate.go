package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"hashhound/internal/hashtype"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateIdentify(); err != nil {
		return err
	}
	if err := c.validateRegistry(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateIdentify() error {
	switch c.Identify.Format {
	case "text", "object", "json":
	default:
		return fmt.Errorf("identify.format: unsupported value %q (expected text, object, or json)", c.Identify.Format)
	}
	if c.Identify.Workers < 1 {
		return errors.New("identify.workers must be positive")
	}
	return nil
}

// validateRegistry rejects unusable custom definitions outright. A pattern
// that does not compile here would otherwise be silently skipped by every
// classification, which hides the typo from the user.
func (c *Config) validateRegistry() error {
	builtin := hashtype.Builtin()
	seen := make(map[string]struct{}, len(c.Registry.Custom))
	for i, custom := range c.Registry.Custom {
		position := fmt.Sprintf("registry.custom[%d]", i)
		if custom.Name == "" {
			return fmt.Errorf("%s: name must be set", position)
		}
		if strings.TrimSpace(custom.Pattern) == "" {
			return fmt.Errorf("%s (%s): pattern must be set", position, custom.Name)
		}
		if _, err := regexp.Compile(custom.Pattern); err != nil {
			return fmt.Errorf("%s (%s): pattern does not compile: %w", position, custom.Name, err)
		}
		if _, err := hashtype.ParseRarity(custom.Rarity); err != nil {
			return fmt.Errorf("%s (%s): %w", position, custom.Name, err)
		}
		key := strings.ToLower(custom.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%s: duplicate custom name %q", position, custom.Name)
		}
		seen[key] = struct{}{}
		if _, exists := builtin.Find(custom.Name); exists {
			return fmt.Errorf("%s: name %q collides with a built-in type", position, custom.Name)
		}
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.QueuePollInterval <= 0 {
		return errors.New("workflow.queue_poll_interval must be positive")
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		return errors.New("workflow.error_retry_interval must be positive")
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		return errors.New("workflow.heartbeat_interval must be positive")
	}
	if c.Workflow.HeartbeatTimeout <= 0 {
		return errors.New("workflow.heartbeat_timeout must be positive")
	}
	if c.Workflow.HeartbeatTimeout <= c.Workflow.HeartbeatInterval {
		return errors.New("workflow.heartbeat_timeout must exceed workflow.heartbeat_interval")
	}
	return nil
}
