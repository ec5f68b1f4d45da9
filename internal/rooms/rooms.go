// Package rooms maps human room names to the cloud room identifiers
// the deployment uses. The registry is fixed for the process lifetime;
// an unknown name fails with the valid list and never triggers a
// network call.
package rooms

import (
	"fmt"
	"sort"
	"strings"
)

// registry maps the room names operators use to cloud room IDs.
var registry = map[string]string{
	"all-nodes":  "room-all-nodes",
	"gpu-fleet":  "room-gpu-fleet",
	"cpu-fleet":  "room-cpu-fleet",
	"storage":    "room-storage",
	"validators": "room-validators",
	"sandbox":    "room-sandbox",
}

// Names returns the registered room names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a human room name to its cloud room ID. Unknown names
// fail with a message listing every valid name.
func Lookup(name string) (string, error) {
	id, ok := registry[name]
	if !ok {
		return "", fmt.Errorf("room %q not found, available: [%s]", name, strings.Join(Names(), ", "))
	}
	return id, nil
}
