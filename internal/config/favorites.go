package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/hamed0406/apihealth/internal/domain"
)

type favoritesFile struct {
	Endpoints []struct {
		Name string `yaml:"name"`
		URL  string `yaml:"url"`
	} `yaml:"endpoints"`
}

// LoadFavorites reads bookmarked endpoints from a YAML file of the form
//
//	endpoints:
//	  - name: Example
//	    url: https://example.com
func LoadFavorites(path string) ([]domain.Endpoint, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	return ParseFavorites(b)
}

func ParseFavorites(b []byte) ([]domain.Endpoint, error) {
	var f favoritesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse favorites yaml: %w", err)
	}

	out := make([]domain.Endpoint, 0, len(f.Endpoints))
	for i, e := range f.Endpoints {
		url := strings.TrimSpace(e.URL)
		if url == "" {
			return nil, fmt.Errorf("favorites: endpoint[%d] missing url", i)
		}
		name := strings.TrimSpace(e.Name)
		if name == "" {
			name = url
		}
		out = append(out, domain.Endpoint{Name: name, URL: url})
	}
	return out, nil
}
