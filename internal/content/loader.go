// Package content loads fishing catalogs from YAML files.
//
// A content directory holds items.yaml, profiles.yaml and a locations/
// directory with one YAML file per location.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/fishcomp/internal/game/fishing"
)

// File and directory names inside a content directory.
const (
	ItemsFile    = "items.yaml"
	ProfilesFile = "profiles.yaml"
	LocationsDir = "locations"
)

// LoadCatalog reads the content directory dir and returns a resolved catalog.
//
// Precondition: dir must contain items.yaml and a locations directory;
// profiles.yaml is optional.
// Postcondition: Returns a fully resolved Catalog or a non-nil error naming
// the offending file.
func LoadCatalog(dir string) (*fishing.Catalog, error) {
	items, err := LoadItemsFromFile(filepath.Join(dir, ItemsFile))
	if err != nil {
		return nil, err
	}
	var profiles []*fishing.Profile
	profilesPath := filepath.Join(dir, ProfilesFile)
	if _, statErr := os.Stat(profilesPath); statErr == nil {
		if profiles, err = LoadProfilesFromFile(profilesPath); err != nil {
			return nil, err
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("reading profiles file %s: %w", profilesPath, statErr)
	}
	locations, err := LoadLocationsFromDir(filepath.Join(dir, LocationsDir))
	if err != nil {
		return nil, err
	}
	return BuildCatalog(items, profiles, locations)
}

// BuildCatalog registers items and profiles, then resolves every location.
//
// Postcondition: returns an error for duplicate IDs or a profile without a
// matching item.
func BuildCatalog(items []*fishing.Item, profiles []*fishing.Profile, locations []fishing.RawLocation) (*fishing.Catalog, error) {
	cat := fishing.NewCatalog()
	for _, i := range items {
		if err := cat.RegisterItem(i); err != nil {
			return nil, err
		}
	}
	for _, p := range profiles {
		if _, ok := cat.Item(p.ID); !ok {
			return nil, fmt.Errorf("profile %q has no matching item", p.ID)
		}
		if err := cat.RegisterProfile(p); err != nil {
			return nil, err
		}
	}
	for _, l := range locations {
		if _, err := cat.AddLocation(l); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// decodeStrict decodes data into v, rejecting unknown fields.
func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

// yamlFiles lists the YAML files directly inside dir in name order.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
