// Package repository defines error types shared across the
// repositories. These sentinel values let handlers and the scheduler
// distinguish failure scenarios: ErrConflict signals a duplicate
// (date, vehicle) shift, ErrShiftNotFound a missing shift row, and so
// on.  Each repository returns the sentinel matching its table.
package repository

import "errors"

// ErrConflict is returned when an insert or update collides with
// existing state, such as a second shift for the same date and
// vehicle. Callers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrShiftNotFound indicates that a shift row was not located.
var ErrShiftNotFound = errors.New("shift not found")

// ErrVehicleNotFound indicates that a vehicle row was not located.
var ErrVehicleNotFound = errors.New("vehicle not found")

// ErrUnitNotFound indicates that no unit matched the requested id or
// name.
var ErrUnitNotFound = errors.New("unit not found")
