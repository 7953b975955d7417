package model

// Unit represents an organizational subdivision (fire station or
// battalion) in the `units` table.  Units own vehicles and shifts but
// are never mutated by the scheduling subsystem; they are only read
// for unit resolution and display.
//
// Fields:
//  ID   – primary key identifier.
//  Name – canonical unit name (e.g. "2º BBM").
type Unit struct {
	ID   uint64 // units.id
	Name string // units.name
}
