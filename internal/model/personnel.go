package model

// Personnel represents a military member in the `personnel` table.
// Display name resolution prefers WarName when non-empty and falls
// back to FullName.
//
// Fields:
//  ID       – primary key identifier.
//  FullName – full legal name.
//  WarName  – short "war name" used on rosters (nullable).
//  Rank     – rank abbreviation (e.g. "SGT", "CAP").
//  IsActive – whether the member is on active duty.
type Personnel struct {
	ID       uint64  // personnel.id
	FullName string  // personnel.full_name
	WarName  *string // personnel.war_name (nullable)
	Rank     string  // personnel.rank
	IsActive bool    // personnel.is_active
}

// Civilian represents a non-military collaborator in the `civilians`
// table (e.g. contracted physicians).  Civilians have no rank of
// their own; roster display synthesizes one.
//
// Fields:
//  ID       – primary key identifier.
//  FullName – full name.
type Civilian struct {
	ID       uint64 // civilians.id
	FullName string // civilians.full_name
}

// PersonDisplay is the hydrated display form of a person reference:
// the rank label plus the name to print on a roster.
type PersonDisplay struct {
	Rank        string `json:"rank"`
	DisplayName string `json:"display_name"`
}
