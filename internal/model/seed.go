package model

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the demo data written to an empty store
type Seed struct {
	Users    []User    `yaml:"users"`
	Products []Product `yaml:"products"`
}

// DefaultSeed returns the embedded demo accounts and catalog
func DefaultSeed() (*Seed, error) {
	return ParseSeed(defaultSeed)
}

// LoadSeed reads seed data from a YAML file, falling back to the embedded seed when path is empty
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return DefaultSeed()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes seed YAML
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	for _, p := range seed.Products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("seed product %q has no positive id", p.Name)
		}
	}
	return &seed, nil
}
