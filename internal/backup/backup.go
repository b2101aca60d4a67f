// Package backup defines the export/import payload. A payload is
// self-contained: classification and recurrence results are reproducible
// from it alone.
package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"ticktask/internal/rules"
	"ticktask/internal/task"
)

// Version is the current payload format version.
const Version = 1

// Payload is the full application state as written to a backup file.
type Payload struct {
	Version    int           `json:"version"`
	ExportedAt time.Time     `json:"exportedAt"`
	Tasks      []task.Task   `json:"tasks"`
	Lists      []task.List   `json:"lists"`
	Tags       []task.Tag    `json:"tags"`
	Settings   task.Settings `json:"settings"`
	Rules      []rules.Rule  `json:"rules"`
}

// Encode renders the payload as indented JSON.
func (p Payload) Encode() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Decode parses a backup file and checks its version.
func Decode(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("backup: decode: %w", err)
	}
	if p.Version > Version {
		return Payload{}, fmt.Errorf("backup: version %d is newer than supported %d", p.Version, Version)
	}
	return p, nil
}
