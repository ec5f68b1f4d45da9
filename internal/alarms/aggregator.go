// Package alarms builds a normalized alarm summary from the cloud
// alarm counters plus per-node drill-down through the agents.
//
// The cloud counters are reported per room, and nodes commonly belong
// to several overlapping rooms, so summing every room double counts.
// The aggregator therefore only retains the counters of the single
// aggregate room (the room covering every node) and re-derives critical
// alarm detail node by node from the agents. This is a fixed policy,
// not a general filter.
package alarms

import (
	"context"
	"strings"
	"sync"

	"fleetmon/internal/agentapi"
	"fleetmon/internal/cloudapi"
	"fleetmon/pkg/logging"
)

// CloudAPI is the slice of the cloud client the aggregator needs.
type CloudAPI interface {
	AlarmCounters(ctx context.Context) ([]cloudapi.AlarmCounter, error)
	Rooms(ctx context.Context) ([]cloudapi.Room, error)
	Nodes(ctx context.Context, roomID string) ([]cloudapi.Node, error)
}

// AgentAPI is the slice of the agent client the aggregator needs.
type AgentAPI interface {
	Alarms(ctx context.Context, host string) (map[string]agentapi.Alarm, error)
}

// RoomAlarm is the retained counter set of one identifiable room.
type RoomAlarm struct {
	RoomID      string
	RoomName    string
	Warnings    int
	Critical    int
	Unreachable int
}

// CriticalAlarm is one critical alert re-derived from a node's agent.
type CriticalAlarm struct {
	Host        string
	AlertName   string
	Status      string
	Description string
	Chart       string
	Room        string
}

// Totals are summed only over retained entries, never the raw fetch.
type Totals struct {
	Warnings        int
	Critical        int
	Unreachable     int
	TotalRooms      int
	RoomsWithIssues int
}

// Summary is the aggregator's result. It is built fresh per request;
// on any primary fetch failure it degrades to an all-zero value with
// Error set rather than propagating.
type Summary struct {
	Totals          Totals
	RoomsWithAlarms []RoomAlarm
	CriticalAlarms  []CriticalAlarm
	AllRooms        []cloudapi.Room
	Error           string
}

// Aggregator assembles alarm summaries.
type Aggregator struct {
	cloud         CloudAPI
	agent         AgentAPI
	aggregateRoom string
}

// New creates an aggregator. aggregateRoom is the room name whose
// counters count; entries resolving to any other name are discarded.
func New(cloud CloudAPI, agent AgentAPI, aggregateRoom string) *Aggregator {
	return &Aggregator{cloud: cloud, agent: agent, aggregateRoom: aggregateRoom}
}

// Summary fetches counters and rooms in parallel, retains the aggregate
// room's entries, and drills into the agents of rooms with critical
// alarms. It never returns an error: failures degrade the summary.
func (a *Aggregator) Summary(ctx context.Context) *Summary {
	var (
		wg          sync.WaitGroup
		counters    []cloudapi.AlarmCounter
		countersErr error
		roomList    []cloudapi.Room
		roomsErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		counters, countersErr = a.cloud.AlarmCounters(ctx)
	}()
	go func() {
		defer wg.Done()
		roomList, roomsErr = a.cloud.Rooms(ctx)
	}()
	wg.Wait()

	if countersErr != nil {
		logging.Error("Alarms", countersErr, "alarm counter fetch failed")
		return &Summary{Error: countersErr.Error()}
	}
	if roomsErr != nil {
		logging.Error("Alarms", roomsErr, "room list fetch failed")
		return &Summary{Error: roomsErr.Error()}
	}

	// Only rooms present in this lookup are identifiable; counters for
	// anything else are dropped.
	roomIDToName := make(map[string]string, len(roomList))
	for _, room := range roomList {
		roomIDToName[room.ID] = room.Name
	}

	summary := &Summary{AllRooms: roomList}
	summary.Totals.TotalRooms = len(roomList)

	for _, counter := range counters {
		name, ok := roomIDToName[counter.RoomID]
		if !ok {
			continue
		}
		if name != a.aggregateRoom {
			continue
		}

		entry := RoomAlarm{
			RoomID:      counter.RoomID,
			RoomName:    name,
			Warnings:    counter.Counters.Warning,
			Critical:    counter.Counters.Critical,
			Unreachable: counter.Counters.Unreachable,
		}
		summary.RoomsWithAlarms = append(summary.RoomsWithAlarms, entry)

		summary.Totals.Warnings += entry.Warnings
		summary.Totals.Critical += entry.Critical
		summary.Totals.Unreachable += entry.Unreachable
		if entry.Warnings > 0 || entry.Critical > 0 || entry.Unreachable > 0 {
			summary.Totals.RoomsWithIssues++
		}

		if entry.Critical > 0 {
			summary.CriticalAlarms = append(summary.CriticalAlarms, a.criticalDetail(ctx, entry)...)
		}
	}

	return summary
}

// criticalDetail queries every node of a room for its CRITICAL alarms.
// Unreachable rooms or nodes are skipped; partial results are expected.
func (a *Aggregator) criticalDetail(ctx context.Context, room RoomAlarm) []CriticalAlarm {
	nodes, err := a.cloud.Nodes(ctx, room.RoomID)
	if err != nil {
		logging.Warn("Alarms", "skipping node drill-down for room %s: %v", room.RoomName, err)
		return nil
	}

	var critical []CriticalAlarm
	for _, node := range nodes {
		alarmList, err := a.agent.Alarms(ctx, node.Hostname)
		if err != nil {
			logging.Warn("Alarms", "skipping unreachable node %s: %v", node.Hostname, err)
			continue
		}
		for _, alarm := range alarmList {
			if !strings.EqualFold(alarm.Status, "critical") {
				continue
			}
			critical = append(critical, CriticalAlarm{
				Host:        node.Hostname,
				AlertName:   alarm.Name,
				Status:      alarm.Status,
				Description: alarm.Info,
				Chart:       alarm.Chart,
				Room:        room.RoomName,
			})
		}
	}
	return critical
}
