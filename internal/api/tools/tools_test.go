package tools

import (
	"context"
	"errors"
	"testing"

	"fleetmon/internal/alarms"
	"fleetmon/internal/cloudapi"
	"fleetmon/internal/prober"
	"fleetmon/internal/provider"
	"fleetmon/internal/wiki"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

// fakeCloud implements CloudAPI. A test that must not reach the network
// sets failOnCall.
type fakeCloud struct {
	t          *testing.T
	failOnCall bool

	spaces   []cloudapi.Space
	rooms    []cloudapi.Room
	contexts map[string][]string
	nodes    map[string][]cloudapi.Node
	err      error
}

func (f *fakeCloud) called(method string) {
	if f.failOnCall {
		f.t.Fatalf("unexpected cloud API call: %s", method)
	}
}

func (f *fakeCloud) Spaces(ctx context.Context) ([]cloudapi.Space, error) {
	f.called("Spaces")
	return f.spaces, f.err
}

func (f *fakeCloud) Rooms(ctx context.Context) ([]cloudapi.Room, error) {
	f.called("Rooms")
	return f.rooms, f.err
}

func (f *fakeCloud) Contexts(ctx context.Context, roomID string) ([]string, error) {
	f.called("Contexts")
	return f.contexts[roomID], f.err
}

func (f *fakeCloud) Nodes(ctx context.Context, roomID string) ([]cloudapi.Node, error) {
	f.called("Nodes")
	return f.nodes[roomID], f.err
}

type fakeAlarmSource struct {
	summary *alarms.Summary
}

func (f *fakeAlarmSource) Summary(ctx context.Context) *alarms.Summary {
	if f.summary != nil {
		return f.summary
	}
	return &alarms.Summary{}
}

type fakeProber struct {
	probed    []string
	batchSize int
	activity  *prober.Activity
}

func (f *fakeProber) Probe(ctx context.Context, identifiers []string, batchSize int) *prober.Activity {
	f.probed = identifiers
	f.batchSize = batchSize
	if f.activity != nil {
		return f.activity
	}
	activity := &prober.Activity{}
	activity.Summary.Total = len(identifiers)
	activity.Summary.Tested = len(identifiers)
	return activity
}

func newInfraTools(cloud *fakeCloud, activityProber *fakeProber) *InfraTools {
	return NewInfraTools(cloud, &fakeAlarmSource{}, activityProber, 5)
}

func TestInfraRegistrations(t *testing.T) {
	it := newInfraTools(&fakeCloud{}, &fakeProber{})
	regs := it.Registrations()
	require.Len(t, regs, 7)

	names := make(map[string]bool)
	for _, reg := range regs {
		names[reg.Tool.Name] = true
	}
	assert.True(t, names["infra_summary"])
	assert.True(t, names["infra_list_spaces"])
	assert.True(t, names["infra_list_rooms"])
	assert.True(t, names["infra_list_nodes"])
	assert.True(t, names["infra_list_contexts"])
	assert.True(t, names["infra_list_categories"])
	assert.True(t, names["infra_check_metric_activity"])
}

func TestHandleListNodesUnknownRoomSkipsNetwork(t *testing.T) {
	cloud := &fakeCloud{t: t, failOnCall: true}
	it := newInfraTools(cloud, &fakeProber{})

	req := callRequest("infra_list_nodes", map[string]interface{}{"room": "nope"})
	result, err := it.HandleListNodes(context.Background(), req)

	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, `room "nope" not found`)
	assert.Contains(t, text, "all-nodes")
	assert.Contains(t, text, "gpu-fleet")
}

func TestHandleListNodes(t *testing.T) {
	cloud := &fakeCloud{
		nodes: map[string][]cloudapi.Node{
			"room-gpu-fleet": {
				{ID: "n1", Hostname: "gpu-01", State: "reachable"},
				{ID: "n2", Hostname: "gpu-02"},
			},
		},
	}
	it := newInfraTools(cloud, &fakeProber{})

	req := callRequest("infra_list_nodes", map[string]interface{}{"room": "gpu-fleet"})
	result, err := it.HandleListNodes(context.Background(), req)

	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "## Nodes in gpu-fleet (2)")
	assert.Contains(t, text, "gpu-01 [reachable]")
	assert.Contains(t, text, "- gpu-02\n")
}

func TestHandleListNodesMissingRoomArgument(t *testing.T) {
	it := newInfraTools(&fakeCloud{t: t, failOnCall: true}, &fakeProber{})

	result, err := it.HandleListNodes(context.Background(), callRequest("infra_list_nodes", map[string]interface{}{}))

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "room is required")
}

func TestHandleListSpacesUpstreamFailure(t *testing.T) {
	cloud := &fakeCloud{err: errors.New("cloud API request failed (502)")}
	it := newInfraTools(cloud, &fakeProber{})

	result, err := it.HandleListSpaces(context.Background(), callRequest("infra_list_spaces", nil))

	// Upstream failures come back as error text, never as a handler error.
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "cloud API request failed")
}

func TestHandleListCategories(t *testing.T) {
	it := newInfraTools(&fakeCloud{}, &fakeProber{})

	result, err := it.HandleListCategories(context.Background(), callRequest("infra_list_categories", nil))

	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "- cpu:")
	assert.Contains(t, text, "- gpu:")
	assert.Contains(t, text, "nvidia_smi.")
}

func TestHandleCheckMetricActivityFiltersByCategory(t *testing.T) {
	cloud := &fakeCloud{
		contexts: map[string][]string{
			"room-all-nodes": {"system.cpu", "disk.io", "cpu.idlejitter", "net.eth0"},
		},
	}
	activityProber := &fakeProber{}
	it := newInfraTools(cloud, activityProber)

	req := callRequest("infra_check_metric_activity", map[string]interface{}{
		"room":     "all-nodes",
		"category": "cpu",
	})
	result, err := it.HandleCheckMetricActivity(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, []string{"system.cpu", "cpu.idlejitter"}, activityProber.probed)
	assert.Equal(t, 5, activityProber.batchSize)
	assert.Contains(t, resultText(t, result), "## Metric Activity: all-nodes (cpu)")
}

func TestHandleCheckMetricActivityUnknownCategory(t *testing.T) {
	cloud := &fakeCloud{
		contexts: map[string][]string{"room-all-nodes": {"system.cpu"}},
	}
	it := newInfraTools(cloud, &fakeProber{})

	req := callRequest("infra_check_metric_activity", map[string]interface{}{
		"room":     "all-nodes",
		"category": "quantum",
	})
	result, err := it.HandleCheckMetricActivity(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, `unknown category "quantum"`)
	assert.Contains(t, text, "cpu")
}

func TestHandleCheckMetricActivityBatchSizeOverride(t *testing.T) {
	cloud := &fakeCloud{
		contexts: map[string][]string{"room-all-nodes": {"system.cpu", "disk.io"}},
	}
	activityProber := &fakeProber{}
	it := newInfraTools(cloud, activityProber)

	req := callRequest("infra_check_metric_activity", map[string]interface{}{
		"room":       "all-nodes",
		"batch_size": float64(2),
	})
	_, err := it.HandleCheckMetricActivity(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 2, activityProber.batchSize)
}

func TestHandleSummaryAlwaysText(t *testing.T) {
	source := &fakeAlarmSource{summary: &alarms.Summary{Error: "cloud unreachable"}}
	it := NewInfraTools(&fakeCloud{}, source, &fakeProber{}, 5)

	result, err := it.HandleSummary(context.Background(), callRequest("infra_summary", nil))

	// A degraded summary is still a normal text result.
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Alarm data unavailable: cloud unreachable")
}

// fakeProviderAPI implements ProviderAPI.
type fakeProviderAPI struct {
	gpu     []provider.ResourceIssue
	cpu     []provider.ResourceIssue
	memory  []provider.ResourceIssue
	down    []provider.DownProvider
	partial []provider.PartialFailure

	gpuErr  error
	downErr error
}

func (f *fakeProviderAPI) GPUIssues(ctx context.Context) ([]provider.ResourceIssue, error) {
	return f.gpu, f.gpuErr
}

func (f *fakeProviderAPI) CPUIssues(ctx context.Context) ([]provider.ResourceIssue, error) {
	return f.cpu, nil
}

func (f *fakeProviderAPI) MemoryIssues(ctx context.Context) ([]provider.ResourceIssue, error) {
	return f.memory, nil
}

func (f *fakeProviderAPI) DownProviders(ctx context.Context) ([]provider.DownProvider, error) {
	return f.down, f.downErr
}

func (f *fakeProviderAPI) PartialFailures(ctx context.Context) ([]provider.PartialFailure, error) {
	return f.partial, nil
}

func TestProviderRegistrations(t *testing.T) {
	pt := NewProviderTools(&fakeProviderAPI{}, &fakeAlarmSource{})
	regs := pt.Registrations()
	require.Len(t, regs, 6)

	names := make(map[string]bool)
	for _, reg := range regs {
		names[reg.Tool.Name] = true
	}
	assert.True(t, names["provider_gpu_issues"])
	assert.True(t, names["provider_all_issues"])
}

func TestHandleDownEmptyFeed(t *testing.T) {
	pt := NewProviderTools(&fakeProviderAPI{}, &fakeAlarmSource{})

	result, err := pt.HandleDown(context.Background(), callRequest("provider_down", nil))

	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "No providers are down.")
}

func TestHandleGPUIssuesUpstreamFailure(t *testing.T) {
	pt := NewProviderTools(&fakeProviderAPI{gpuErr: errors.New("provider API request failed")}, &fakeAlarmSource{})

	result, err := pt.HandleGPUIssues(context.Background(), callRequest("provider_gpu_issues", nil))

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Failed to fetch GPU issues")
}

func TestHandleAllIssuesCombinesSections(t *testing.T) {
	api := &fakeProviderAPI{
		down:    []provider.DownProvider{{Host: "p-1", Issue: "no heartbeat"}},
		downErr: nil,
		gpuErr:  errors.New("gpu feed timeout"),
	}
	pt := NewProviderTools(api, &fakeAlarmSource{})

	result, err := pt.HandleAllIssues(context.Background(), callRequest("provider_all_issues", nil))

	require.NoError(t, err)
	assert.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "## Infrastructure Alarm Summary")
	assert.Contains(t, text, "Feed unavailable: gpu feed timeout")
	assert.Contains(t, text, "p-1")
	assert.Contains(t, text, "Combined: UNHEALTHY")
}

func TestHandleAllIssuesHealthy(t *testing.T) {
	pt := NewProviderTools(&fakeProviderAPI{}, &fakeAlarmSource{})

	result, err := pt.HandleAllIssues(context.Background(), callRequest("provider_all_issues", nil))

	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Combined: HEALTHY")
}

// fakeWikiAPI implements WikiAPI.
type fakeWikiAPI struct {
	pages   map[string]string
	tree    []wiki.Page
	hits    []wiki.SearchHit
	treeErr error
}

func (f *fakeWikiAPI) PageRaw(ctx context.Context, path string) (string, error) {
	content, ok := f.pages[path]
	if !ok {
		return "", errors.New("wiki API request failed (404)")
	}
	return content, nil
}

func (f *fakeWikiAPI) Tree(ctx context.Context) ([]wiki.Page, error) {
	return f.tree, f.treeErr
}

func (f *fakeWikiAPI) Search(ctx context.Context, query string) ([]wiki.SearchHit, error) {
	return f.hits, f.treeErr
}

func TestWikiRegistrations(t *testing.T) {
	wt := NewWikiTools(&fakeWikiAPI{})
	regs := wt.Registrations()
	require.Len(t, regs, 3)
	assert.Equal(t, "wiki_get_page", regs[0].Tool.Name)
	assert.Equal(t, "wiki_list_pages", regs[1].Tool.Name)
	assert.Equal(t, "wiki_search", regs[2].Tool.Name)
}

func TestHandleGetPage(t *testing.T) {
	wt := NewWikiTools(&fakeWikiAPI{
		pages: map[string]string{"runbooks/gpu-recovery": "# GPU Recovery\n\nSteps."},
	})

	req := callRequest("wiki_get_page", map[string]interface{}{"path": "runbooks/gpu-recovery"})
	result, err := wt.HandleGetPage(context.Background(), req)

	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "# GPU Recovery")
}

func TestHandleGetPageMissingPage(t *testing.T) {
	wt := NewWikiTools(&fakeWikiAPI{})

	req := callRequest("wiki_get_page", map[string]interface{}{"path": "does/not/exist"})
	result, err := wt.HandleGetPage(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Failed to fetch page")
}

func TestHandleSearchRendersSnippets(t *testing.T) {
	wt := NewWikiTools(&fakeWikiAPI{
		hits: []wiki.SearchHit{
			{Page: wiki.Page{Path: "runbooks/gpu-recovery", Title: "GPU Recovery"}, Snippet: "Restart the agent first."},
			{Page: wiki.Page{Path: "runbooks/gpu-firmware", Title: "GPU Firmware"}},
		},
	})

	req := callRequest("wiki_search", map[string]interface{}{"query": "gpu"})
	result, err := wt.HandleSearch(context.Background(), req)

	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, `## Search Results for "gpu" (2)`)
	assert.Contains(t, text, "Restart the agent first.")
	assert.Contains(t, text, "GPU Firmware")
}

func TestHandleSearchMissingQuery(t *testing.T) {
	wt := NewWikiTools(&fakeWikiAPI{})

	result, err := wt.HandleSearch(context.Background(), callRequest("wiki_search", map[string]interface{}{}))

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "query is required")
}
