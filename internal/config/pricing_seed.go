package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// PricingSeedItem is one catalog entry of the pricing seed file.
type PricingSeedItem struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
}

// LoadPricingSeed parses the YAML catalog used to populate an empty pricing
// table.  A missing file yields no items and no error.
func LoadPricingSeed(path string) ([]PricingSeedItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pricing seed: %w", err)
	}
	// Environment references such as ${CURRENCY_NOTE} are expanded before parsing.
	expanded := []byte(os.ExpandEnv(string(data)))

	var doc struct {
		Items []PricingSeedItem `yaml:"items"`
	}
	if err := yaml.Unmarshal(expanded, &doc); err != nil {
		return nil, fmt.Errorf("parse pricing seed %s: %w", path, err)
	}
	return doc.Items, nil
}
