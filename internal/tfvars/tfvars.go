// Package tfvars reads flat KEY=VALUE variable files destined for a
// Terraform Cloud workspace.
package tfvars

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Entry is one workspace variable.
type Entry struct {
	Key         string
	Value       string
	Description string
	Sensitive   bool
}

// Entries preserves file order. When a key is assigned more than once the
// first occurrence fixes its position and the last assignment wins.
type Entries []Entry

// ParseError reports a variable file line that has no "=" separator.
type ParseError struct {
	File string
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: variable line %q has no \"=\"", e.File, e.Line, e.Text)
}

// Load reads the file at path into ordered entries. An empty path yields an
// empty set so optional flags need no special casing by callers. Lines are
// split on the first "="; blank lines and #-comments are skipped; a value
// wrapped in double quotes is unquoted once.
func Load(path string) (Entries, error) {
	return load(path, false)
}

// LoadSensitive is Load with every entry marked sensitive, for files whose
// values must be write-only once uploaded.
func LoadSensitive(path string) (Entries, error) {
	return load(path, true)
}

func load(path string, sensitive bool) (Entries, error) {
	if path == "" {
		return Entries{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open variables file: %w", err)
	}
	defer f.Close()

	entries := Entries{}
	positions := map[string]int{}

	scanner := bufio.NewScanner(f)

	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, &ParseError{File: path, Line: n, Text: line}
		}

		entry := Entry{
			Key:       strings.TrimSpace(key),
			Value:     unquote(strings.TrimSpace(value)),
			Sensitive: sensitive,
		}

		if i, ok := positions[entry.Key]; ok {
			entries[i] = entry
			continue
		}

		positions[entry.Key] = len(entries)
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read variables file %s: %w", path, err)
	}

	return entries, nil
}

// unquote strips one pair of surrounding double quotes, the usual tfvars
// spelling for string values. Anything else passes through untouched.
func unquote(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return value[1 : len(value)-1]
	}

	return value
}
