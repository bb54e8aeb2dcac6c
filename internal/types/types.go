package types

// Telemetry is one control-cycle summary pushed to websocket clients.
type Telemetry struct {
	Type       string     `json:"type"`
	Cycle      uint64     `json:"cycle"`
	Reflection float64    `json:"reflection"`
	Ambient    float64    `json:"ambient"`
	Red        float64    `json:"red"`
	Green      float64    `json:"green"`
	Blue       float64    `json:"blue"`
	RedSeen    bool       `json:"red_seen"`
	BlueSeen   bool       `json:"blue_seen"`
	Left       float64    `json:"left"`
	Right      float64    `json:"right"`
	Sonar      float64    `json:"sonar"`
	Bumper     [3]float64 `json:"bumper"`
	Battery    string     `json:"battery"`
}
