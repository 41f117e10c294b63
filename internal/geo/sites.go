package geo

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadSites reads a sites.json file: a JSON array of Site objects.
func LoadSites(path string) ([]Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sites []Site
	if err := json.Unmarshal(data, &sites); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return sites, nil
}

// LoadIndex reads a sites file and builds an index over it.
func LoadIndex(path string) (*Index, error) {
	sites, err := LoadSites(path)
	if err != nil {
		return nil, err
	}
	return NewIndex(sites)
}
