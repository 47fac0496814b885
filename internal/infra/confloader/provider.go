package confloader

import (
	"errors"

	"github.com/knadh/koanf/maps"
)

// mapProvider feeds flag overrides to koanf. Dotted keys become nested
// sections so they merge with the file and env layers.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("confloader: override map has no byte form")
}

func (m mapProvider) Read() (map[string]any, error) {
	return maps.Unflatten(map[string]any(m), "."), nil
}
