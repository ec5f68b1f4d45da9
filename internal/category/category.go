// Package category partitions metric context identifiers into named
// categories by string-prefix rules. The rule table is fixed for the
// process lifetime.
package category

import (
	"fmt"
	"sort"
	"strings"
)

// rules maps a category name to the context prefixes that belong to
// it. Matching is a logical OR over the prefixes; order is irrelevant.
var rules = map[string][]string{
	"cpu":        {"system.cpu", "cpu.", "system.load", "system.intr", "system.ctxt"},
	"memory":     {"system.ram", "mem.", "system.swap"},
	"disk":       {"disk.", "disk_", "system.io"},
	"network":    {"net.", "net_", "system.net", "ip.", "ipv4.", "ipv6."},
	"containers": {"cgroup.", "cgroup_", "docker."},
	"database":   {"postgres.", "mysql.", "redis."},
	"web":        {"nginx.", "web_log.", "httpcheck."},
	"sensors":    {"sensors.", "system.hw"},
	"gpu":        {"nvidia_smi.", "gpu."},
}

// UnknownCategoryError reports a category name missing from the rule
// table, carrying the full valid list for the caller's message.
type UnknownCategoryError struct {
	Name  string
	Valid []string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q, valid categories: %s", e.Name, strings.Join(e.Valid, ", "))
}

// Names returns the registered category names, sorted.
func Names() []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Prefixes returns the prefix rules for a category, or an
// UnknownCategoryError.
func Prefixes(name string) ([]string, error) {
	prefixes, ok := rules[name]
	if !ok {
		return nil, &UnknownCategoryError{Name: name, Valid: Names()}
	}
	return prefixes, nil
}

// Filter returns, in input order, the identifiers that start with at
// least one prefix of the named category.
func Filter(identifiers []string, name string) ([]string, error) {
	prefixes, err := Prefixes(name)
	if err != nil {
		return nil, err
	}

	var matched []string
	for _, id := range identifiers {
		for _, prefix := range prefixes {
			if strings.HasPrefix(id, prefix) {
				matched = append(matched, id)
				break
			}
		}
	}
	return matched, nil
}
