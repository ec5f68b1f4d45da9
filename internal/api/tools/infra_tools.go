package tools

import (
	"context"
	"fmt"
	"strings"

	"fleetmon/internal/alarms"
	"fleetmon/internal/category"
	"fleetmon/internal/cloudapi"
	"fleetmon/internal/prober"
	"fleetmon/internal/report"
	"fleetmon/internal/rooms"

	"github.com/mark3labs/mcp-go/mcp"
)

// CloudAPI is the slice of the cloud client the infrastructure tools
// need.
type CloudAPI interface {
	Spaces(ctx context.Context) ([]cloudapi.Space, error)
	Rooms(ctx context.Context) ([]cloudapi.Room, error)
	Contexts(ctx context.Context, roomID string) ([]string, error)
	Nodes(ctx context.Context, roomID string) ([]cloudapi.Node, error)
}

// AlarmSource produces alarm summaries.
type AlarmSource interface {
	Summary(ctx context.Context) *alarms.Summary
}

// ActivityProber runs batched metric activity probes.
type ActivityProber interface {
	Probe(ctx context.Context, identifiers []string, batchSize int) *prober.Activity
}

// InfraTools provides the infrastructure service area: rooms, nodes,
// metric contexts, alarm summaries and activity probing.
type InfraTools struct {
	cloud            CloudAPI
	alarmSource      AlarmSource
	prober           ActivityProber
	defaultBatchSize int
}

// NewInfraTools creates the infrastructure tool set.
func NewInfraTools(cloud CloudAPI, alarmSource AlarmSource, activityProber ActivityProber, defaultBatchSize int) *InfraTools {
	return &InfraTools{
		cloud:            cloud,
		alarmSource:      alarmSource,
		prober:           activityProber,
		defaultBatchSize: defaultBatchSize,
	}
}

// Registrations returns every infrastructure tool with its handler.
func (it *InfraTools) Registrations() []Registration {
	return []Registration{
		{
			Tool: mcp.NewTool("infra_summary",
				mcp.WithDescription("Summarize infrastructure alarms: per-room counters, critical alarm detail from the nodes, and fleet-wide totals"),
			),
			Handler: it.HandleSummary,
		},
		{
			Tool: mcp.NewTool("infra_list_spaces",
				mcp.WithDescription("List the cloud spaces visible to the configured token"),
			),
			Handler: it.HandleListSpaces,
		},
		{
			Tool: mcp.NewTool("infra_list_rooms",
				mcp.WithDescription("List the rooms of the configured space"),
			),
			Handler: it.HandleListRooms,
		},
		{
			Tool: mcp.NewTool("infra_list_nodes",
				mcp.WithDescription("List the nodes of a room"),
				mcp.WithString("room",
					mcp.Required(),
					mcp.Description("Room name, e.g. all-nodes or gpu-fleet"),
				),
			),
			Handler: it.HandleListNodes,
		},
		{
			Tool: mcp.NewTool("infra_list_contexts",
				mcp.WithDescription("List the metric contexts collected in a room"),
				mcp.WithString("room",
					mcp.Required(),
					mcp.Description("Room name, e.g. all-nodes or gpu-fleet"),
				),
			),
			Handler: it.HandleListContexts,
		},
		{
			Tool: mcp.NewTool("infra_list_categories",
				mcp.WithDescription("List the metric categories usable with infra_check_metric_activity"),
			),
			Handler: it.HandleListCategories,
		},
		{
			Tool: mcp.NewTool("infra_check_metric_activity",
				mcp.WithDescription("Probe which metric contexts of a room still receive data, in rate-limited batches against the sandbox agent"),
				mcp.WithString("room",
					mcp.Required(),
					mcp.Description("Room name whose contexts to probe"),
				),
				mcp.WithString("category",
					mcp.Description("Optional metric category to restrict the probe to"),
				),
				mcp.WithNumber("batch_size",
					mcp.Description("Concurrent probes per batch (default 5)"),
				),
			),
			Handler: it.HandleCheckMetricActivity,
		},
	}
}

// HandleSummary handles the infra_summary tool call.
func (it *InfraTools) HandleSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary := it.alarmSource.Summary(ctx)
	return mcp.NewToolResultText(report.AlarmSummary(summary)), nil
}

// HandleListSpaces handles the infra_list_spaces tool call.
func (it *InfraTools) HandleListSpaces(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaces, err := it.cloud.Spaces(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list spaces: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Spaces (%d)\n\n", len(spaces)))
	if len(spaces) == 0 {
		sb.WriteString("No spaces visible to this token.\n")
	}
	for _, space := range spaces {
		sb.WriteString(fmt.Sprintf("- %s (%s)\n", space.Name, space.ID))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// HandleListRooms handles the infra_list_rooms tool call.
func (it *InfraTools) HandleListRooms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roomList, err := it.cloud.Rooms(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list rooms: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Rooms (%d)\n\n", len(roomList)))
	if len(roomList) == 0 {
		sb.WriteString("No rooms in this space.\n")
	}
	for _, room := range roomList {
		sb.WriteString(fmt.Sprintf("- %s (%s)\n", room.Name, room.ID))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// HandleListNodes handles the infra_list_nodes tool call.
func (it *InfraTools) HandleListNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roomName, err := req.RequireString("room")
	if err != nil {
		return mcp.NewToolResultError("room is required"), nil
	}

	roomID, err := rooms.Lookup(roomName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	nodes, err := it.cloud.Nodes(ctx, roomID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list nodes: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Nodes in %s (%d)\n\n", roomName, len(nodes)))
	if len(nodes) == 0 {
		sb.WriteString("No nodes in this room.\n")
	}
	for _, node := range nodes {
		if node.State != "" {
			sb.WriteString(fmt.Sprintf("- %s [%s]\n", node.Hostname, node.State))
		} else {
			sb.WriteString(fmt.Sprintf("- %s\n", node.Hostname))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// HandleListContexts handles the infra_list_contexts tool call.
func (it *InfraTools) HandleListContexts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roomName, err := req.RequireString("room")
	if err != nil {
		return mcp.NewToolResultError("room is required"), nil
	}

	roomID, err := rooms.Lookup(roomName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	contexts, err := it.cloud.Contexts(ctx, roomID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list contexts: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Metric Contexts in %s (%d)\n\n", roomName, len(contexts)))
	if len(contexts) == 0 {
		sb.WriteString("No metric contexts collected in this room.\n")
	}
	for _, metricContext := range contexts {
		sb.WriteString(fmt.Sprintf("- %s\n", metricContext))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// HandleListCategories handles the infra_list_categories tool call.
func (it *InfraTools) HandleListCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := category.Names()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Metric Categories (%d)\n\n", len(names)))
	for _, name := range names {
		prefixes, err := category.Prefixes(name)
		if err != nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", name, strings.Join(prefixes, ", ")))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// HandleCheckMetricActivity handles the infra_check_metric_activity
// tool call. It fetches the room's contexts, applies the optional
// category filter, and probes the remainder in batches. All of this
// works on structured data; text is rendered exactly once, here.
func (it *InfraTools) HandleCheckMetricActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roomName, err := req.RequireString("room")
	if err != nil {
		return mcp.NewToolResultError("room is required"), nil
	}

	roomID, err := rooms.Lookup(roomName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	contexts, err := it.cloud.Contexts(ctx, roomID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list contexts: %v", err)), nil
	}

	categoryName := ""
	if v, err := req.RequireString("category"); err == nil && v != "" {
		categoryName = v
		contexts, err = category.Filter(contexts, categoryName)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	batchSize := it.defaultBatchSize
	if v, err := req.RequireFloat("batch_size"); err == nil && v != 0 {
		batchSize = int(v)
	}

	activity := it.prober.Probe(ctx, contexts, batchSize)
	return mcp.NewToolResultText(report.MetricActivity(activity, roomName, categoryName)), nil
}
