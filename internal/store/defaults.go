// Package store provides the persistence collaborators of the expense
// pipeline: an in-memory store, a SQLite store and the default category
// table.
package store

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivanvallejoss/smartexpense/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var embeddedDefaults []byte

// LoadDefaultCategories returns the default category table. An empty path
// selects the table compiled into the binary; otherwise the file is resolved
// with FindConfigFile.
func LoadDefaultCategories(path string) (models.DefaultCategoryTable, error) {
	if path == "" {
		return ParseDefaultCategories(embeddedDefaults)
	}

	resolved, err := FindConfigFile(path)
	if err != nil {
		return models.DefaultCategoryTable{}, fmt.Errorf("default categories file %s: %w", path, err)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return models.DefaultCategoryTable{}, fmt.Errorf("error reading default categories file: %w", err)
	}
	return ParseDefaultCategories(data)
}

// ParseDefaultCategories decodes and validates a default category table.
func ParseDefaultCategories(data []byte) (models.DefaultCategoryTable, error) {
	var table models.DefaultCategoryTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return models.DefaultCategoryTable{}, fmt.Errorf("error parsing default categories: %w", err)
	}
	if len(table.Categories) == 0 {
		return models.DefaultCategoryTable{}, fmt.Errorf("default categories: no categories defined")
	}

	seen := make(map[string]bool, len(table.Categories))
	for i, c := range table.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return models.DefaultCategoryTable{}, fmt.Errorf("default categories: entry %d has no name", i)
		}
		if seen[name] {
			return models.DefaultCategoryTable{}, fmt.Errorf("default categories: duplicate category %q", name)
		}
		seen[name] = true
		if len(c.Keywords) == 0 {
			return models.DefaultCategoryTable{}, fmt.Errorf("default categories: %q has no keywords", name)
		}
		if c.Color == "" {
			table.Categories[i].Color = models.DefaultCategoryColor
		}
		table.Categories[i].Name = name
	}
	return table, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".smartexpense", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".smartexpense", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}
