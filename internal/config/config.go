// Package config builds and validates the configuration record one
// deployment runs from.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-version"
	"github.com/joho/godotenv"
)

// DefaultAddress is the Terraform Cloud API endpoint used when --url is
// omitted. Terraform Enterprise installs pass their own.
const DefaultAddress = "https://app.terraform.io/api/v2"

var addressPattern = regexp.MustCompile(`^https?://.+/api/v2$`)

// Config carries everything one invocation needs. It is assembled once at
// startup, from flags or Action inputs plus the environment, and read-only
// afterwards. Credentials are explicit fields rather than ambient lookups.
type Config struct {
	Address          string
	Workspace        string
	Prefix           string
	Module           string
	VariablesFile    string
	SensitiveFile    string
	TerraformVersion string
	AutoApply        bool
	Message          string

	Token        string
	Organization string
}

// UsageError reports a bad, missing or conflicting flag. It is always
// produced before any network I/O happens.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

// ConfigError reports process environment the tool cannot run without.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config: %s", e.Message) }

type environment struct {
	Token        string `env:"TFC_TOKEN"`
	Organization string `env:"TFC_ORG"`
	Workspace    string `env:"TFC_WORKSPACE"`
}

// LoadEnvironment fills credentials, and the optional workspace default,
// from the process environment. A .env file in the working directory is
// honored when present. Fields already set by the caller win over the
// environment. Missing credentials fail here, before any network call.
func (c *Config) LoadEnvironment() error {
	// Absence of a .env file is the normal case.
	_ = godotenv.Load()

	var e environment
	if err := env.Parse(&e); err != nil {
		return &ConfigError{Message: err.Error()}
	}

	if c.Token == "" {
		c.Token = e.Token
	}

	if c.Organization == "" {
		c.Organization = e.Organization
	}

	if c.Workspace == "" && c.Prefix == "" {
		c.Workspace = e.Workspace
	}

	if c.Token == "" {
		return &ConfigError{Message: "TFC_TOKEN environment variable not set"}
	}

	if c.Organization == "" {
		return &ConfigError{Message: "TFC_ORG environment variable not set"}
	}

	return nil
}

// Validate enforces the flag contract: exactly one of workspace or prefix,
// a module ID always, an address ending in /api/v2 and, when given, a
// parseable Terraform version. The address is normalized in place.
func (c *Config) Validate() error {
	if c.Workspace != "" && c.Prefix != "" {
		return &UsageError{Message: "--workspace and --prefix are mutually exclusive"}
	}

	if c.Workspace == "" && c.Prefix == "" {
		return &UsageError{Message: "one of --workspace or --prefix is required"}
	}

	if c.Module == "" {
		return &UsageError{Message: "--module is required"}
	}

	if c.TerraformVersion != "" {
		if _, err := version.NewVersion(c.TerraformVersion); err != nil {
			return &UsageError{Message: fmt.Sprintf("--terraform-version %q is not a valid version", c.TerraformVersion)}
		}
	}

	normalized, err := NormalizeAddress(c.Address)
	if err != nil {
		return err
	}

	c.Address = normalized

	return nil
}

// NormalizeAddress strips trailing slashes and checks the address shape:
// http or https, path ending in /api/v2. An empty address means Terraform
// Cloud.
func NormalizeAddress(address string) (string, error) {
	if address == "" {
		return DefaultAddress, nil
	}

	trimmed := strings.TrimRight(address, "/")

	if !addressPattern.MatchString(trimmed) {
		return "", &UsageError{Message: fmt.Sprintf("--url %q must start with http[s]:// and end with /api/v2", address)}
	}

	return trimmed, nil
}

// AppRoot returns the service root used for human-facing URLs, the address
// without its /api/v2 suffix.
func (c *Config) AppRoot() string {
	return strings.TrimSuffix(c.Address, "/api/v2")
}
