package models

import "time"

// SensorState is what a host platform reads for one requested category.
type SensorState struct {
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	Icon       string    `json:"icon"`
	Unit       string    `json:"unit"`
	State      string    `json:"state,omitempty"`
	Available  bool      `json:"available"`
	Hidden     bool      `json:"hidden"`
	LastUpdate time.Time `json:"last_update"`
}
