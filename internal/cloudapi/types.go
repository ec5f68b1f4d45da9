package cloudapi

// Space is a top-level tenant in the cloud API.
type Space struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Room is a logical grouping of monitored nodes. A node may belong to
// several rooms at once.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AlarmCounter carries the per-room alarm counters reported by the
// cloud. Counters are cloud-level aggregates and can double count nodes
// that appear in several overlapping rooms.
type AlarmCounter struct {
	RoomID   string `json:"room_id"`
	Counters struct {
		Warning     int `json:"warning"`
		Critical    int `json:"critical"`
		Unreachable int `json:"unreachable"`
	} `json:"counters"`
}

// Node is a monitored host as the cloud sees it. Hostname is the name
// its local agent answers on.
type Node struct {
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
	State    string `json:"state,omitempty"`
}
