package agentapi

import "encoding/json"

// Series is the time-series body an agent returns for one metric
// context. Each row of Data is a timestamp followed by one value per
// label; values stay opaque because probing only counts rows.
type Series struct {
	Labels []string          `json:"labels"`
	Data   []json.RawMessage `json:"data"`
}

// Points returns the number of data rows in the series.
func (s *Series) Points() int {
	if s == nil {
		return 0
	}
	return len(s.Data)
}

// LastRow returns the most recent data row, or nil when the series is
// empty.
func (s *Series) LastRow() json.RawMessage {
	if s == nil || len(s.Data) == 0 {
		return nil
	}
	return s.Data[0]
}

// Alarm is one entry of an agent's alarm list.
type Alarm struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Info   string `json:"info"`
	Chart  string `json:"chart"`
}
