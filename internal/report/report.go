// Package report renders structured results into fixed-layout text.
// Formatters are pure: no network access, no hidden state. Formatting
// happens exactly once, at the tool boundary; nothing downstream parses
// these strings back.
package report

import (
	"fmt"
	"strings"

	"fleetmon/internal/alarms"
	"fleetmon/internal/prober"
	"fleetmon/internal/provider"
)

// AlarmSummary renders the aggregator result: banner, per-room counter
// block, critical alarm detail, numeric totals.
func AlarmSummary(summary *alarms.Summary) string {
	var sb strings.Builder
	sb.WriteString("## Infrastructure Alarm Summary\n\n")

	if summary.Error != "" {
		sb.WriteString(fmt.Sprintf("Alarm data unavailable: %s\n", summary.Error))
		return sb.String()
	}

	if len(summary.RoomsWithAlarms) == 0 {
		sb.WriteString("No alarm counters available for the aggregate room.\n")
	} else {
		for _, room := range summary.RoomsWithAlarms {
			sb.WriteString(fmt.Sprintf("- %s: %d warning, %d critical, %d unreachable\n",
				room.RoomName, room.Warnings, room.Critical, room.Unreachable))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("### Critical Alarms\n\n")
	if len(summary.CriticalAlarms) == 0 {
		sb.WriteString("No critical alarms reported by any node.\n")
	} else {
		for _, alarm := range summary.CriticalAlarms {
			sb.WriteString(fmt.Sprintf("- %s: %s (%s) on chart %s — %s\n",
				alarm.Host, alarm.AlertName, strings.ToUpper(alarm.Status), alarm.Chart, alarm.Description))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("### Totals\n\n")
	sb.WriteString(fmt.Sprintf("Warnings: %d\n", summary.Totals.Warnings))
	sb.WriteString(fmt.Sprintf("Critical: %d\n", summary.Totals.Critical))
	sb.WriteString(fmt.Sprintf("Unreachable nodes: %d\n", summary.Totals.Unreachable))
	sb.WriteString(fmt.Sprintf("Rooms: %d total, %d with issues\n",
		summary.Totals.TotalRooms, summary.Totals.RoomsWithIssues))

	return sb.String()
}

// MetricActivity renders a prober run: banner, per-classification
// blocks, numeric summary.
func MetricActivity(activity *prober.Activity, room, categoryName string) string {
	var sb strings.Builder
	if categoryName != "" {
		sb.WriteString(fmt.Sprintf("## Metric Activity: %s (%s)\n\n", room, categoryName))
	} else {
		sb.WriteString(fmt.Sprintf("## Metric Activity: %s\n\n", room))
	}

	sb.WriteString("### Active Contexts\n\n")
	if len(activity.Active) == 0 {
		sb.WriteString("No active contexts found.\n")
	} else {
		for _, result := range activity.Active {
			sb.WriteString(fmt.Sprintf("- %s: %d samples, labels [%s]\n",
				result.Identifier, result.SampleCount, strings.Join(result.Labels, ", ")))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("### Inactive Contexts\n\n")
	if len(activity.Inactive) == 0 {
		sb.WriteString("No inactive contexts found.\n")
	} else {
		for _, result := range activity.Inactive {
			sb.WriteString(fmt.Sprintf("- %s: no recent data points\n", result.Identifier))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("### Probe Errors\n\n")
	if len(activity.Errors) == 0 {
		sb.WriteString("No probe errors.\n")
	} else {
		for _, result := range activity.Errors {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", result.Identifier, result.Error))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("### Summary\n\n")
	sb.WriteString(fmt.Sprintf("Total contexts: %d\n", activity.Summary.Total))
	sb.WriteString(fmt.Sprintf("Tested: %d\n", activity.Summary.Tested))
	sb.WriteString(fmt.Sprintf("Active: %d\n", activity.Summary.ActiveCount))
	sb.WriteString(fmt.Sprintf("Inactive: %d\n", activity.Summary.InactiveCount))
	sb.WriteString(fmt.Sprintf("Errors: %d\n", activity.Summary.ErrorCount))

	return sb.String()
}

// ResourceIssues renders one capacity feed (GPU, CPU or memory).
func ResourceIssues(resource string, issues []provider.ResourceIssue) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s Issues\n\n", resource))

	if len(issues) == 0 {
		sb.WriteString(fmt.Sprintf("No %s issues detected.\n", strings.ToLower(resource)))
		return sb.String()
	}

	for _, issue := range issues {
		line := fmt.Sprintf("- %s: allocatable %s, allocated %s, utilization %s",
			issue.HostName(), issue.Allocatable, issue.Allocated, issue.Utilization())
		if issue.Issue != "" {
			line += " — " + issue.Issue
		}
		if issue.Severity != "" {
			line += fmt.Sprintf(" [%s]", issue.Severity)
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString(fmt.Sprintf("\nAffected nodes: %d\n", len(issues)))
	return sb.String()
}

// DownProviders renders the hard-down provider feed.
func DownProviders(providers []provider.DownProvider) string {
	var sb strings.Builder
	sb.WriteString("## Down Providers\n\n")

	if len(providers) == 0 {
		sb.WriteString("No providers are down.\n")
		return sb.String()
	}

	for _, p := range providers {
		line := fmt.Sprintf("- %s", p.HostName())
		if p.FailureDuration != "" {
			line += fmt.Sprintf(": down for %s", p.FailureDuration)
		}
		if p.Issue != "" {
			line += " — " + p.Issue
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString(fmt.Sprintf("\nDown providers: %d\n", len(providers)))
	return sb.String()
}

// PartialFailures renders the partial-failure feed.
func PartialFailures(failures []provider.PartialFailure) string {
	var sb strings.Builder
	sb.WriteString("## Providers With Partial Failures\n\n")

	if len(failures) == 0 {
		sb.WriteString("No partial failures detected.\n")
		return sb.String()
	}

	for _, f := range failures {
		line := fmt.Sprintf("- %s: %d failing endpoints", f.HostName(), f.FailureCount())
		if len(f.FailedIPs) > 0 {
			line += fmt.Sprintf(" (%s)", strings.Join(f.FailedIPs, ", "))
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString(fmt.Sprintf("\nProviders with partial failures: %d\n", len(failures)))
	return sb.String()
}

// Combined carries every input of the all-issues report. Fetch errors
// per feed are rendered in place of the feed's section.
type Combined struct {
	Infra *alarms.Summary

	GPU       []provider.ResourceIssue
	GPUErr    error
	CPU       []provider.ResourceIssue
	CPUErr    error
	Memory    []provider.ResourceIssue
	MemoryErr error

	Down    []provider.DownProvider
	DownErr error

	Partial    []provider.PartialFailure
	PartialErr error
}

// InfraHealthy reports whether the infrastructure side is clean: alarm
// data present, no critical alarms, no unreachable nodes.
func (c *Combined) InfraHealthy() bool {
	return c.Infra != nil &&
		c.Infra.Error == "" &&
		c.Infra.Totals.Critical == 0 &&
		c.Infra.Totals.Unreachable == 0
}

// ProvidersHealthy reports whether the provider network is clean: every
// feed fetched, every feed empty.
func (c *Combined) ProvidersHealthy() bool {
	return c.GPUErr == nil && c.CPUErr == nil && c.MemoryErr == nil &&
		c.DownErr == nil && c.PartialErr == nil &&
		len(c.GPU) == 0 && len(c.CPU) == 0 && len(c.Memory) == 0 &&
		len(c.Down) == 0 && len(c.Partial) == 0
}

func feedSection(err error, render func() string) string {
	if err != nil {
		return fmt.Sprintf("Feed unavailable: %v\n", err)
	}
	return render()
}

// AllIssues concatenates every section in fixed order and closes with
// the cross-cutting health summary. The combined flag is healthy only
// when both sides are.
func AllIssues(c *Combined) string {
	var sections []string

	sections = append(sections, AlarmSummary(c.Infra))
	sections = append(sections, feedSection(c.GPUErr, func() string { return ResourceIssues("GPU", c.GPU) }))
	sections = append(sections, feedSection(c.CPUErr, func() string { return ResourceIssues("CPU", c.CPU) }))
	sections = append(sections, feedSection(c.MemoryErr, func() string { return ResourceIssues("Memory", c.Memory) }))
	sections = append(sections, feedSection(c.DownErr, func() string { return DownProviders(c.Down) }))
	sections = append(sections, feedSection(c.PartialErr, func() string { return PartialFailures(c.Partial) }))

	infraFlag := healthFlag(c.InfraHealthy())
	providerFlag := healthFlag(c.ProvidersHealthy())
	combinedFlag := healthFlag(c.InfraHealthy() && c.ProvidersHealthy())

	var sb strings.Builder
	sb.WriteString("## Overall Health\n\n")
	sb.WriteString(fmt.Sprintf("Infrastructure: %s\n", infraFlag))
	sb.WriteString(fmt.Sprintf("Provider network: %s\n", providerFlag))
	sb.WriteString(fmt.Sprintf("Combined: %s\n", combinedFlag))
	sections = append(sections, sb.String())

	return strings.Join(sections, "\n")
}

func healthFlag(healthy bool) string {
	if healthy {
		return "HEALTHY"
	}
	return "UNHEALTHY"
}
