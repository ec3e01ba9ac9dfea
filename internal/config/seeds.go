package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Seed is one entry of the seeds file: a site to crawl and the id its
// page records will carry as their composite-id prefix.
type Seed struct {
	// ID becomes the prefix of every page id produced for this site
	// ("<id>-1", "<id>-2", ...). Conventionally a small integer, but any
	// dash-free string works.
	ID string `json:"id"`

	// URL is the absolute address the crawl starts from. Outbound links
	// are only followed while they stay under this prefix.
	URL string `json:"url"`
}

// Valid reports whether the seed carries both an id and a URL.
// The crawl command skips invalid entries with a warning rather than
// aborting the whole run.
func (s Seed) Valid() bool {
	return s.ID != "" && s.URL != ""
}

// LoadSeeds reads the seeds file and returns its entries in file order.
// It returns ErrNoSeeds when the file parses to an empty list. Invalid
// entries are returned as-is; callers decide whether to skip or abort.
func LoadSeeds(path string) ([]Seed, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided seeds path is intentional
	if err != nil {
		return nil, fmt.Errorf("read seeds file: %w", err)
	}

	var seeds []Seed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse seeds file %s: %w", path, err)
	}

	if len(seeds) == 0 {
		return nil, ErrNoSeeds
	}

	return seeds, nil
}
