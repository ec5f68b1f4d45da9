// Package prober checks which metric contexts still receive data by
// querying an agent once per context, in fixed-size concurrent batches
// with a pacing delay between batches. The batch size bounds peak
// concurrent outbound calls and the delay paces the total call rate;
// this is the only backpressure mechanism in the system.
package prober

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"fleetmon/internal/agentapi"
	"fleetmon/pkg/logging"
)

// For mocking in tests
var sleep = time.Sleep

// ProbeFunc fetches the recent series for one metric context.
type ProbeFunc func(ctx context.Context, identifier string) (*agentapi.Series, error)

// Result is the outcome of probing one metric context. A probe never
// fails outward: transport errors land in Error with Active=false so a
// bad identifier cannot abort its batch.
type Result struct {
	Identifier  string
	Active      bool
	SampleCount int
	Labels      []string
	LastValue   json.RawMessage
	Error       string
}

// Summary aggregates the counts of one activity run.
type Summary struct {
	Total         int
	Tested        int
	ActiveCount   int
	InactiveCount int
	ErrorCount    int
}

// Activity groups probe results by classification. Built incrementally
// across batches and returned once, after the last batch settles.
type Activity struct {
	Active   []Result
	Inactive []Result
	Errors   []Result
	Summary  Summary
}

// Prober runs batched activity probes through a single probe function.
type Prober struct {
	probe      ProbeFunc
	batchDelay time.Duration
}

// New creates a prober. batchDelay is the pause between consecutive
// batches; there is no pause after the last one.
func New(probe ProbeFunc, batchDelay time.Duration) *Prober {
	return &Prober{probe: probe, batchDelay: batchDelay}
}

// Probe queries every identifier in concurrent batches of batchSize and
// classifies each outcome. A batchSize of zero or less means a single
// batch covering the whole list. Summary.Tested always equals
// len(identifiers).
func (p *Prober) Probe(ctx context.Context, identifiers []string, batchSize int) *Activity {
	activity := &Activity{}
	activity.Summary.Total = len(identifiers)

	if len(identifiers) == 0 {
		return activity
	}
	if batchSize <= 0 {
		batchSize = len(identifiers)
	}

	for start := 0; start < len(identifiers); start += batchSize {
		end := start + batchSize
		if end > len(identifiers) {
			end = len(identifiers)
		}
		batch := identifiers[start:end]

		logging.Debug("Prober", "probing batch of %d (%d/%d done)", len(batch), start, len(identifiers))

		results := make([]Result, len(batch))
		var wg sync.WaitGroup
		for i, id := range batch {
			wg.Add(1)
			go func(i int, id string) {
				defer wg.Done()
				results[i] = p.probeOne(ctx, id)
			}(i, id)
		}
		wg.Wait()

		for _, result := range results {
			activity.Summary.Tested++
			switch {
			case result.Error != "":
				activity.Summary.ErrorCount++
				activity.Errors = append(activity.Errors, result)
			case result.Active:
				activity.Summary.ActiveCount++
				activity.Active = append(activity.Active, result)
			default:
				activity.Summary.InactiveCount++
				activity.Inactive = append(activity.Inactive, result)
			}
		}

		if end < len(identifiers) {
			sleep(p.batchDelay)
		}
	}

	return activity
}

func (p *Prober) probeOne(ctx context.Context, identifier string) Result {
	result := Result{Identifier: identifier}

	series, err := p.probe(ctx, identifier)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.SampleCount = series.Points()
	result.Labels = series.Labels
	result.LastValue = series.LastRow()
	result.Active = result.SampleCount > 0
	return result
}
