package model

// CrewAssignment links one person to one shift in the `shift_crew`
// table.  The pair (ShiftID, PersonnelID) is unique; re-adding the
// same person to the same shift is a no-op at the storage layer.
//
// Fields:
//  ShiftID     – shift the person is assigned to.
//  PersonnelID – assigned person.
//  Role        – optional role label within the crew (nullable).
type CrewAssignment struct {
	ShiftID     uint64  // shift_crew.shift_id
	PersonnelID uint64  // shift_crew.personnel_id
	Role        *string // shift_crew.role (nullable)
}

// CrewMember is the inbound form of a crew entry: a person plus an
// optional role.  The full crew of a shift is replaced as a unit from
// a list of these.
type CrewMember struct {
	PersonnelID uint64  `json:"personnel_id"`
	Role        *string `json:"role,omitempty"`
}
