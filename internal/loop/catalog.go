package loop

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed loops.yml
var catalogData []byte

// Categories in display order.
const (
	CategoryDiscovery  = "Discovery"
	CategoryRefinement = "Refinement"
	CategoryAsset      = "Asset"
	CategoryExport     = "Export"
)

// Definition describes one creative loop from the catalog.
type Definition struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Abbrev       string `yaml:"abbrev"`
	Category     string `yaml:"category"`
	Description  string `yaml:"description"`
	RequiresSeed bool   `yaml:"requires_seed"`
}

type catalogFile struct {
	Loops []Definition `yaml:"loops"`
}

var catalog = mustLoadCatalog()

func mustLoadCatalog() []Definition {
	var file catalogFile
	if err := yaml.Unmarshal(catalogData, &file); err != nil {
		panic(fmt.Sprintf("invalid embedded loop catalog: %v", err))
	}
	return file.Loops
}

// All returns every loop definition in catalog order.
func All() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup resolves a loop by kebab-case id or display name,
// case-insensitively. It returns an error naming the unknown loop when no
// definition matches.
func Lookup(name string) (Definition, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, def := range catalog {
		if needle == def.ID || needle == strings.ToLower(def.Name) {
			return def, nil
		}
	}
	return Definition{}, fmt.Errorf("unknown loop: %s", name)
}

// ByCategory groups the catalog for listings, keyed by category name.
func ByCategory() map[string][]Definition {
	out := make(map[string][]Definition)
	for _, def := range catalog {
		out[def.Category] = append(out[def.Category], def)
	}
	return out
}

// Categories returns the category names in display order.
func Categories() []string {
	return []string{CategoryDiscovery, CategoryRefinement, CategoryAsset, CategoryExport}
}
