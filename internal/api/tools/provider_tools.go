package tools

import (
	"context"
	"fmt"
	"sync"

	"fleetmon/internal/provider"
	"fleetmon/internal/report"

	"github.com/mark3labs/mcp-go/mcp"
)

// ProviderAPI is the slice of the provider health client the provider
// tools need.
type ProviderAPI interface {
	GPUIssues(ctx context.Context) ([]provider.ResourceIssue, error)
	CPUIssues(ctx context.Context) ([]provider.ResourceIssue, error)
	MemoryIssues(ctx context.Context) ([]provider.ResourceIssue, error)
	DownProviders(ctx context.Context) ([]provider.DownProvider, error)
	PartialFailures(ctx context.Context) ([]provider.PartialFailure, error)
}

// ProviderTools provides the provider service area: the five health
// feeds and the combined all-issues report.
type ProviderTools struct {
	providerAPI ProviderAPI
	alarmSource AlarmSource
}

// NewProviderTools creates the provider tool set. alarmSource supplies
// the infrastructure side of the combined report.
func NewProviderTools(providerAPI ProviderAPI, alarmSource AlarmSource) *ProviderTools {
	return &ProviderTools{providerAPI: providerAPI, alarmSource: alarmSource}
}

// Registrations returns every provider tool with its handler.
func (pt *ProviderTools) Registrations() []Registration {
	return []Registration{
		{
			Tool: mcp.NewTool("provider_gpu_issues",
				mcp.WithDescription("List provider nodes with GPU capacity issues"),
			),
			Handler: pt.HandleGPUIssues,
		},
		{
			Tool: mcp.NewTool("provider_cpu_issues",
				mcp.WithDescription("List provider nodes with CPU capacity issues"),
			),
			Handler: pt.HandleCPUIssues,
		},
		{
			Tool: mcp.NewTool("provider_memory_issues",
				mcp.WithDescription("List provider nodes with memory capacity issues"),
			),
			Handler: pt.HandleMemoryIssues,
		},
		{
			Tool: mcp.NewTool("provider_down",
				mcp.WithDescription("List providers that are completely down"),
			),
			Handler: pt.HandleDown,
		},
		{
			Tool: mcp.NewTool("provider_partial_failures",
				mcp.WithDescription("List providers with partially failing endpoints"),
			),
			Handler: pt.HandlePartialFailures,
		},
		{
			Tool: mcp.NewTool("provider_all_issues",
				mcp.WithDescription("Combined report: infrastructure alarms plus every provider health feed, with overall health flags"),
			),
			Handler: pt.HandleAllIssues,
		},
	}
}

// HandleGPUIssues handles the provider_gpu_issues tool call.
func (pt *ProviderTools) HandleGPUIssues(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issues, err := pt.providerAPI.GPUIssues(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch GPU issues: %v", err)), nil
	}
	return mcp.NewToolResultText(report.ResourceIssues("GPU", issues)), nil
}

// HandleCPUIssues handles the provider_cpu_issues tool call.
func (pt *ProviderTools) HandleCPUIssues(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issues, err := pt.providerAPI.CPUIssues(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch CPU issues: %v", err)), nil
	}
	return mcp.NewToolResultText(report.ResourceIssues("CPU", issues)), nil
}

// HandleMemoryIssues handles the provider_memory_issues tool call.
func (pt *ProviderTools) HandleMemoryIssues(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issues, err := pt.providerAPI.MemoryIssues(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch memory issues: %v", err)), nil
	}
	return mcp.NewToolResultText(report.ResourceIssues("Memory", issues)), nil
}

// HandleDown handles the provider_down tool call.
func (pt *ProviderTools) HandleDown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	down, err := pt.providerAPI.DownProviders(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch down providers: %v", err)), nil
	}
	return mcp.NewToolResultText(report.DownProviders(down)), nil
}

// HandlePartialFailures handles the provider_partial_failures tool call.
func (pt *ProviderTools) HandlePartialFailures(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	failures, err := pt.providerAPI.PartialFailures(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch partial failures: %v", err)), nil
	}
	return mcp.NewToolResultText(report.PartialFailures(failures)), nil
}

// HandleAllIssues handles the provider_all_issues tool call. The five
// provider feeds and the alarm summary are fetched in parallel; a feed
// that fails renders an in-place error line instead of aborting the
// report.
func (pt *ProviderTools) HandleAllIssues(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	combined := &report.Combined{}

	var wg sync.WaitGroup
	wg.Add(6)
	go func() {
		defer wg.Done()
		combined.Infra = pt.alarmSource.Summary(ctx)
	}()
	go func() {
		defer wg.Done()
		combined.GPU, combined.GPUErr = pt.providerAPI.GPUIssues(ctx)
	}()
	go func() {
		defer wg.Done()
		combined.CPU, combined.CPUErr = pt.providerAPI.CPUIssues(ctx)
	}()
	go func() {
		defer wg.Done()
		combined.Memory, combined.MemoryErr = pt.providerAPI.MemoryIssues(ctx)
	}()
	go func() {
		defer wg.Done()
		combined.Down, combined.DownErr = pt.providerAPI.DownProviders(ctx)
	}()
	go func() {
		defer wg.Done()
		combined.Partial, combined.PartialErr = pt.providerAPI.PartialFailures(ctx)
	}()
	wg.Wait()

	return mcp.NewToolResultText(report.AllIssues(combined)), nil
}
