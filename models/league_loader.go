// File: models/league_loader.go
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// readFile is swapped out in tests.
var readFile = os.ReadFile

// LoadLeague reads league data from a YAML file. An empty path yields DefaultLeague.
// The result is validated before it is returned.
func LoadLeague(path string) (*League, error) {
	if path == "" {
		return DefaultLeague(), nil
	}

	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read league config %s: %w", path, err)
	}
	return ParseLeague(data)
}

// ParseLeague decodes and validates YAML league data.
func ParseLeague(data []byte) (*League, error) {
	var league League
	if err := yaml.Unmarshal(data, &league); err != nil {
		return nil, fmt.Errorf("failed to parse league config: %w", err)
	}
	if err := league.Validate(); err != nil {
		return nil, err
	}
	return &league, nil
}
