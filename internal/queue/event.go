// Package queue defines message payloads exchanged over the message broker.
package queue

// ShiftScheduledEvent is published when a duty shift is successfully
// created. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type ShiftScheduledEvent struct {
	ShiftID     uint64 `json:"shift_id"`
	Name        string `json:"name"`
	ShiftType   string `json:"shift_type"`
	Date        string `json:"date"`
	UnitID      uint64 `json:"unit_id"`
	VehicleID   uint64 `json:"vehicle_id"`
	CrewSize    int    `json:"crew_size"`
	ScheduledBy uint64 `json:"scheduled_by"`
	ScheduledAt string `json:"scheduled_at"`
}
