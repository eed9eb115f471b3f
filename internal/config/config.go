// Package config loads the user configuration and derives which backend to use.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/tasks/pkg/core"
)

// DataFileName is the data document name for the file-family backends.
const DataFileName = "tasks.json"

// Config is the user configuration. The derived fields are filled by Resolve.
type Config struct {
	SSHIP         string `koanf:"ssh_ip" yaml:"ssh_ip" json:"ssh_ip,omitempty"`
	SSHUsername   string `koanf:"ssh_username" yaml:"ssh_username" json:"ssh_username,omitempty"`
	SSHFilePath   string `koanf:"ssh_file_path" yaml:"ssh_file_path" json:"ssh_file_path,omitempty"`
	LocalFilePath string `koanf:"local_file_path" yaml:"local_file_path" json:"local_file_path,omitempty"`
	MaxLineLength int    `koanf:"max_line_length" yaml:"max_line_length,omitempty" json:"max_line_length,omitempty"`
	APIURL        string `koanf:"api_url" yaml:"api_url" json:"api_url,omitempty"`
	APIKey        string `koanf:"api_key" yaml:"api_key" json:"api_key,omitempty"`

	Mode       core.BackendKind `koanf:"-" yaml:"-" json:"mode"`
	FolderPath string           `koanf:"-" yaml:"-" json:"folder_path"`
	FilePath   string           `koanf:"-" yaml:"-" json:"file_path"`
}

// Resolve derives the backend mode and the data document location.
//
// An api_url selects the REST service; otherwise ssh_ip selects the remote
// filesystem; otherwise the local filesystem is used. The document location
// follows ssh_ip even in api mode, since it is the migration source. Local
// folders are absolute, remote folders are relative to the login directory.
func (c *Config) Resolve() error {
	switch {
	case c.APIURL != "":
		c.Mode = core.KindAPI
	case c.SSHIP != "":
		c.Mode = core.KindSSH
	default:
		c.Mode = core.KindLocal
	}

	if c.SSHIP != "" {
		c.FolderPath = strings.TrimPrefix(c.SSHFilePath, "/")
		if c.FolderPath == "" {
			c.FilePath = DataFileName
		} else {
			c.FilePath = c.FolderPath + "/" + DataFileName
		}
		return nil
	}

	if c.LocalFilePath != "" {
		c.FolderPath = c.LocalFilePath
		if !strings.HasPrefix(c.FolderPath, "/") {
			c.FolderPath = "/" + c.FolderPath
		}
	} else {
		dir, err := DefaultDataDir()
		if err != nil {
			return err
		}
		c.FolderPath = dir
	}
	c.FilePath = filepath.Join(c.FolderPath, DataFileName)
	return nil
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	var errs []error
	if c.Mode == core.KindAPI && c.APIKey == "" {
		errs = append(errs, errors.New("api_key is required when api_url is set"))
	}
	if c.SSHIP != "" && c.SSHUsername == "" {
		errs = append(errs, errors.New("ssh_username is required when ssh_ip is set"))
	}
	if c.MaxLineLength < 0 {
		errs = append(errs, fmt.Errorf("max_line_length must not be negative, got %d", c.MaxLineLength))
	}
	return errors.Join(errs...)
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "********"
	}
	return c
}

// DefaultDataDir is $XDG_DATA_HOME/tasks, falling back to ~/.local/share/tasks.
func DefaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tasks"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "tasks"), nil
}

// DefaultPath is $XDG_CONFIG_HOME/tasks/config.yaml, falling back to ~/.config/tasks/config.yaml.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tasks", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tasks", "config.yaml"), nil
}
