// Package config loads layered YAML configuration for the drivers:
// user-level first, then project-level overriding it, then
// environment variables overriding both.
package config

import (
	"os"
	"path/filepath"

	"github.com/m4xw311/chainsight/errors"
	"gopkg.in/yaml.v3"
)

type FilesystemAccess struct {
	Hidden   []string `yaml:"hidden"`
	ReadOnly []string `yaml:"read_only"`
}

type MCPServer struct {
	Name    string   `yaml:"name"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

type Toolset struct {
	Name  string   `yaml:"name"`
	Tools []string `yaml:"tools"`
}

type Config struct {
	Provider         string           `yaml:"llm"`
	Model            string           `yaml:"model"`
	Project          string           `yaml:"project"`
	Location         string           `yaml:"location"`
	Verbose          bool             `yaml:"verbose"`
	Toolsets         []Toolset        `yaml:"toolsets"`
	MCPServers       []MCPServer      `yaml:"mcp_servers"`
	AllowedCommands  []string         `yaml:"allowed_commands"`
	FilesystemAccess FilesystemAccess `yaml:"filesystem_access"`
}

// Load reads configuration from the user's home directory and the
// current working directory, with the latter taking precedence, then
// applies environment overrides.
func Load() (*Config, error) {
	cfg := &Config{}

	// The config directory itself stays invisible to tools.
	cfg.FilesystemAccess.Hidden = append(cfg.FilesystemAccess.Hidden, ".chainsight", ".chainsight/**")

	home, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(home, ".chainsight", "config.yaml")
		if _, err := os.Stat(userPath); err == nil {
			if err := loadFromFile(userPath, cfg); err != nil {
				return nil, errors.Wrapf(err, "error loading user config")
			}
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrapf(err, "could not get working directory")
	}
	projectPath := filepath.Join(wd, ".chainsight", "config.yaml")
	if _, err := os.Stat(projectPath); err == nil {
		if err := loadFromFile(projectPath, cfg); err != nil {
			return nil, errors.Wrapf(err, "error loading project config")
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Unmarshal overwrites fields present in the YAML, which gives a
	// simple merge where project-level config replaces user-level.
	return yaml.Unmarshal(data, cfg)
}

// applyEnv overrides file-sourced values with the driver environment
// variables: MODEL_NAME, PROJECT_ID and LOCATION.
func (c *Config) applyEnv() {
	if v := os.Getenv("MODEL_NAME"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("PROJECT_ID"); v != "" {
		c.Project = v
	}
	if v := os.Getenv("LOCATION"); v != "" {
		c.Location = v
	}
}

// GetToolset finds a toolset by name, falling back to "default".
func (c *Config) GetToolset(name string) (*Toolset, error) {
	if name == "" {
		name = "default"
	}
	for i := range c.Toolsets {
		if c.Toolsets[i].Name == name {
			return &c.Toolsets[i], nil
		}
	}
	if name == "default" {
		return nil, errors.New("mandatory 'default' toolset not found in configuration")
	}
	return c.GetToolset("default")
}
