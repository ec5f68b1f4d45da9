package provider

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The provider health API emits loosely-typed records: fields come and
// go per provider version, and numeric fields arrive as numbers or as
// strings. Each issue kind gets an explicit optional-field struct and
// accessor helpers with a documented fallback chain, so individual
// call sites never invent their own.

// FlexNumber accepts a JSON number or a numeric string.
type FlexNumber struct {
	raw json.RawMessage
}

func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	f.raw = append(f.raw[:0], data...)
	return nil
}

func (f FlexNumber) MarshalJSON() ([]byte, error) {
	if len(f.raw) == 0 {
		return []byte("null"), nil
	}
	return f.raw, nil
}

// Float returns the numeric value and whether one could be extracted.
func (f FlexNumber) Float() (float64, bool) {
	if len(f.raw) == 0 {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(f.raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(f.raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// String renders the value for display, "Unknown" when absent or
// non-numeric.
func (f FlexNumber) String() string {
	if n, ok := f.Float(); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return "Unknown"
}

// ResourceIssue is a GPU, CPU or memory capacity problem on one
// provider node.
type ResourceIssue struct {
	Host        string     `json:"host,omitempty"`
	Provider    string     `json:"provider,omitempty"`
	Node        string     `json:"node,omitempty"`
	Allocatable FlexNumber `json:"allocatable,omitempty"`
	Allocated   FlexNumber `json:"allocated,omitempty"`
	Capacity    FlexNumber `json:"capacity,omitempty"`
	Issue       string     `json:"issue,omitempty"`
	Severity    string     `json:"severity,omitempty"`
}

// HostName prefers host, falls back to provider, then node, then a
// placeholder. Records without any of the three still render.
func (r ResourceIssue) HostName() string {
	switch {
	case r.Host != "":
		return r.Host
	case r.Provider != "":
		return r.Provider
	case r.Node != "":
		return r.Node
	default:
		return "(unknown host)"
	}
}

// Utilization renders allocated/allocatable as a percentage, "Unknown"
// when either side is absent, non-numeric or allocatable is zero.
func (r ResourceIssue) Utilization() string {
	allocated, ok1 := r.Allocated.Float()
	allocatable, ok2 := r.Allocatable.Float()
	if !ok1 || !ok2 || allocatable == 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%.1f%%", allocated/allocatable*100)
}

// DownProvider is a provider that stopped answering entirely.
type DownProvider struct {
	Host            string `json:"host,omitempty"`
	Provider        string `json:"provider,omitempty"`
	Issue           string `json:"issue,omitempty"`
	Severity        string `json:"severity,omitempty"`
	FailureDuration string `json:"failure_duration,omitempty"`
}

// HostName prefers host, falls back to provider.
func (d DownProvider) HostName() string {
	switch {
	case d.Host != "":
		return d.Host
	case d.Provider != "":
		return d.Provider
	default:
		return "(unknown host)"
	}
}

// PartialFailure is a provider with some unreachable endpoints.
type PartialFailure struct {
	Host      string   `json:"host,omitempty"`
	Provider  string   `json:"provider,omitempty"`
	Failures  int      `json:"failures,omitempty"`
	FailedIPs []string `json:"failed_ips,omitempty"`
}

// HostName prefers host, falls back to provider.
func (p PartialFailure) HostName() string {
	switch {
	case p.Host != "":
		return p.Host
	case p.Provider != "":
		return p.Provider
	default:
		return "(unknown host)"
	}
}

// FailureCount prefers the explicit counter, falls back to the length
// of the failed IP list.
func (p PartialFailure) FailureCount() int {
	if p.Failures > 0 {
		return p.Failures
	}
	return len(p.FailedIPs)
}
