package config

import (
	"fmt"

	"github.com/jchantrell/lgres/internal/layout"
)

// validateTypeNames ensures every configured type filter names a known resource type
func validateTypeNames(types []string) error {
	for _, name := range types {
		if name == "" {
			return fmt.Errorf("type name cannot be empty")
		}

		if _, err := layout.ParseType(name); err != nil {
			return err
		}
	}
	return nil
}

// ResourceTypes resolves the configured type filter. An empty filter yields
// a nil set, meaning every type is selected.
func (c *Config) ResourceTypes() (map[layout.Type]bool, error) {
	if len(c.Types) == 0 {
		return nil, nil
	}

	set := make(map[layout.Type]bool, len(c.Types))
	for _, name := range c.Types {
		t, err := layout.ParseType(name)
		if err != nil {
			return nil, err
		}
		set[t] = true
	}
	return set, nil
}
