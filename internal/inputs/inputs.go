// Package inputs reads GitHub Action inputs into the shapes the deployer
// expects.
package inputs

import (
	"fmt"
	"strings"

	"github.com/sethvargo/go-githubactions"
	yaml "gopkg.in/yaml.v2"

	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/tfvars"
)

// GetOrDefault returns the named input, or fallback when it is unset
func GetOrDefault(name string, fallback string) string {
	if v := strings.TrimSpace(githubactions.GetInput(name)); v != "" {
		return v
	}

	return fallback
}

// GetBool returns true if the input value is "true", otherwise false
func GetBool(name string) bool {
	return strings.EqualFold(githubactions.GetInput(name), "true")
}

// GetBoolPtr returns nil if the value was unset, true if the input value is "true", otherwise false
func GetBoolPtr(name string) *bool {
	b := githubactions.GetInput(name)

	if b == "" {
		return nil
	}

	bp := strings.EqualFold(b, "true")

	return &bp
}

// Variable is the YAML shape of one item in the variables input.
type Variable struct {
	Key         string `yaml:"key"`
	Value       string `yaml:"value"`
	Description string `yaml:"description,omitempty"`
	Sensitive   bool   `yaml:"sensitive,omitempty"`
}

// ParseVariables decodes the variables input, a YAML list of key/value
// items, into workspace variable entries.
func ParseVariables(raw string) (tfvars.Entries, error) {
	if strings.TrimSpace(raw) == "" {
		return tfvars.Entries{}, nil
	}

	var items []Variable
	if err := yaml.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("parse variables input: %w", err)
	}

	entries := make(tfvars.Entries, len(items))

	for i, item := range items {
		entries[i] = tfvars.Entry{
			Key:         item.Key,
			Value:       item.Value,
			Description: item.Description,
			Sensitive:   item.Sensitive,
		}
	}

	return entries, nil
}
