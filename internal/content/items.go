package content

import (
	"fmt"
	"os"

	"github.com/cory-johannsen/fishcomp/internal/game/fishing"
)

// yamlItemsFile is the top-level YAML structure of items.yaml.
type yamlItemsFile struct {
	Items []yamlItem `yaml:"items"`
}

type yamlItem struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Price int      `yaml:"price"`
	Tags  []string `yaml:"tags"`
}

// yamlProfilesFile is the top-level YAML structure of profiles.yaml.
type yamlProfilesFile struct {
	Profiles []yamlProfile `yaml:"profiles"`
}

type yamlProfile struct {
	ID         string  `yaml:"id"`
	Kind       string  `yaml:"kind"`
	Chance     float64 `yaml:"chance"`
	Difficulty int     `yaml:"difficulty"`
	MinSize    int     `yaml:"min_size"`
	MaxSize    int     `yaml:"max_size"`
	MaxDepth   int     `yaml:"max_depth"`
	SpawnMult  float64 `yaml:"spawn_mult"`
	DepthMult  float64 `yaml:"depth_mult"`
	MinLevel   int     `yaml:"min_level"`
	Times      []int   `yaml:"times"`
	Weather    string  `yaml:"weather"`
}

// LoadItemsFromFile reads and validates an items file.
//
// Precondition: path must point to a YAML items file.
// Postcondition: Returns validated items or a non-nil error.
func LoadItemsFromFile(path string) ([]*fishing.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading items file %s: %w", path, err)
	}
	items, err := LoadItemsFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading items from %s: %w", path, err)
	}
	return items, nil
}

// LoadItemsFromBytes parses and validates items from YAML bytes.
func LoadItemsFromBytes(data []byte) ([]*fishing.Item, error) {
	var file yamlItemsFile
	if err := decodeStrict(data, &file); err != nil {
		return nil, fmt.Errorf("parsing items YAML: %w", err)
	}
	items := make([]*fishing.Item, 0, len(file.Items))
	for _, yi := range file.Items {
		item := &fishing.Item{ID: yi.ID, Name: yi.Name, Price: yi.Price, Tags: yi.Tags}
		if err := item.Validate(); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// LoadProfilesFromFile reads and validates a profiles file.
//
// Precondition: path must point to a YAML profiles file.
// Postcondition: Returns validated profiles or a non-nil error.
func LoadProfilesFromFile(path string) ([]*fishing.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles file %s: %w", path, err)
	}
	profiles, err := LoadProfilesFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading profiles from %s: %w", path, err)
	}
	return profiles, nil
}

// LoadProfilesFromBytes parses and validates catchable profiles from YAML bytes.
func LoadProfilesFromBytes(data []byte) ([]*fishing.Profile, error) {
	var file yamlProfilesFile
	if err := decodeStrict(data, &file); err != nil {
		return nil, fmt.Errorf("parsing profiles YAML: %w", err)
	}
	profiles := make([]*fishing.Profile, 0, len(file.Profiles))
	for _, yp := range file.Profiles {
		p := &fishing.Profile{
			ID:         yp.ID,
			Kind:       fishing.ProfileKind(yp.Kind),
			Chance:     yp.Chance,
			Difficulty: yp.Difficulty,
			MinSize:    yp.MinSize,
			MaxSize:    yp.MaxSize,
			MaxDepth:   yp.MaxDepth,
			SpawnMult:  yp.SpawnMult,
			DepthMult:  yp.DepthMult,
			MinLevel:   yp.MinLevel,
			Times:      yp.Times,
			Weather:    yp.Weather,
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
