package mappings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sharelab/share-o-meter/internal/share"
)

// registry holds the built-in preset constructors. Each call builds a fresh
// SignalMapping so no caller can mutate a shared instance.
var registry = map[string]func() *share.SignalMapping{
	"openneuro": OpenNeuro,
	"dataverse": Dataverse,
}

// ForRepository returns the SignalMapping preset registered under name
// (case-insensitive). Unknown names are an error so callers cannot silently
// score a record against the wrong schema.
func ForRepository(name string) (*share.SignalMapping, error) {
	build, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("no signal mapping registered for repository %q", name)
	}
	return build(), nil
}

// Names lists the registered repository presets in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
