package scheduler

import (
	"context"
	"strings"
	"time"

	"github.com/vmartins/escala-service/internal/model"
)

// IntervalStore is the daily-service batch persistence.
// *repository.DailyServiceRepo satisfies it.
type IntervalStore interface {
	FindActiveBatchStart(ctx context.Context, windowStart, windowEnd string) (string, bool, error)
	ListByBatchStart(ctx context.Context, batchStart string) ([]model.DailyRoleAssignment, error)
	ReplaceBatch(ctx context.Context, originalStart, newStart, newEnd string, entries []model.DailyRoleAssignment) error
	DeleteByBatchStart(ctx context.Context, batchStart string) error
}

// PersonDirectory resolves person ids to display rows.
// *repository.PersonnelRepo satisfies it.
type PersonDirectory interface {
	DisplayMilitary(ctx context.Context, ids []uint64) (map[uint64]model.PersonDisplay, error)
	DisplayCivilians(ctx context.Context, ids []uint64) (map[uint64]model.PersonDisplay, error)
}

// DailyService resolves and maintains the per-day service roster: one
// batch of role assignments sharing a start/end interval (commander of
// the day, duty officer, and so on).
type DailyService struct {
	Store  IntervalStore
	People PersonDirectory
}

func NewDailyService(store IntervalStore, people PersonDirectory) *DailyService {
	if store == nil || people == nil {
		panic("nil dependency passed to NewDailyService")
	}
	return &DailyService{Store: store, People: people}
}

// dayWindow returns the [00:00:00, next day 00:00:00) bounds for a
// calendar date, formatted for DATETIME comparison.
func dayWindow(date string) (string, string, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", "", err
	}
	return d.Format(dbTimeLayout), d.AddDate(0, 0, 1).Format(dbTimeLayout), nil
}

const dbTimeLayout = "2006-01-02 15:04:05"

// Roster returns the service roster active on the given calendar
// date.  A batch is active when its interval overlaps any part of the
// day; when several do, the most recently started wins.  A day with
// no batch yields an empty roster rather than an error.
func (d *DailyService) Roster(ctx context.Context, date string) (*model.DailyRoster, error) {
	windowStart, windowEnd, err := dayWindow(date)
	if err != nil {
		return nil, validation("date is required in YYYY-MM-DD format")
	}
	batchStart, found, err := d.Store.FindActiveBatchStart(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, internal("failed to look up service roster", err)
	}
	if !found {
		return &model.DailyRoster{Entries: []model.RosterEntry{}}, nil
	}
	rows, err := d.Store.ListByBatchStart(ctx, batchStart)
	if err != nil {
		return nil, internal("failed to load service roster", err)
	}
	roster := &model.DailyRoster{Entries: make([]model.RosterEntry, 0, len(rows))}
	if len(rows) > 0 {
		roster.StartsAt = rows[0].StartsAt
		roster.EndsAt = rows[0].EndsAt
	}

	var militaryIDs, civilianIDs []uint64
	for _, r := range rows {
		switch r.Person.Kind {
		case model.PersonMilitary:
			militaryIDs = append(militaryIDs, r.Person.ID)
		case model.PersonCivilian:
			civilianIDs = append(civilianIDs, r.Person.ID)
		default:
			return nil, internal("unknown person kind in service roster", nil)
		}
	}
	military, err := d.People.DisplayMilitary(ctx, militaryIDs)
	if err != nil {
		return nil, internal("failed to resolve personnel", err)
	}
	civilians, err := d.People.DisplayCivilians(ctx, civilianIDs)
	if err != nil {
		return nil, internal("failed to resolve civilians", err)
	}

	for _, r := range rows {
		entry := model.RosterEntry{Role: r.Role, Person: r.Person}
		var disp model.PersonDisplay
		var ok bool
		if r.Person.Kind == model.PersonMilitary {
			disp, ok = military[r.Person.ID]
		} else {
			disp, ok = civilians[r.Person.ID]
		}
		if ok {
			entry.Rank = disp.Rank
			entry.DisplayName = disp.DisplayName
		}
		roster.Entries = append(roster.Entries, entry)
	}
	return roster, nil
}

// BatchInput carries a full service roster replacement.
type BatchInput struct {
	// OriginalStartsAt identifies the batch being replaced; when
	// empty the new start stands in for it.
	OriginalStartsAt string
	StartsAt         string
	EndsAt           string
	Entries          []BatchEntry
}

// BatchEntry is one role assignment inside a batch.
type BatchEntry struct {
	Role   string
	Person model.PersonRef
}

// parseBatchTime accepts either a bare date or a full datetime; bare
// dates anchor at midnight.
func parseBatchTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dbTimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// SaveBatch replaces a service roster batch.  The destination window
// is cleared of any overlapping rows so two batches never cover the
// same instant.
func (d *DailyService) SaveBatch(ctx context.Context, in BatchInput) error {
	start, err := parseBatchTime(in.StartsAt)
	if err != nil {
		return validation("starts_at is required as YYYY-MM-DD or YYYY-MM-DD HH:MM:SS")
	}
	end, err := parseBatchTime(in.EndsAt)
	if err != nil {
		return validation("ends_at is required as YYYY-MM-DD or YYYY-MM-DD HH:MM:SS")
	}
	if !start.Before(end) {
		return validation("starts_at must be before ends_at")
	}
	if len(in.Entries) == 0 {
		return validation("at least one role assignment is required")
	}

	newStart := start.Format(dbTimeLayout)
	newEnd := end.Format(dbTimeLayout)
	originalStart := newStart
	if s := strings.TrimSpace(in.OriginalStartsAt); s != "" {
		t, err := parseBatchTime(s)
		if err != nil {
			return validation("original_starts_at must use YYYY-MM-DD or YYYY-MM-DD HH:MM:SS")
		}
		originalStart = t.Format(dbTimeLayout)
	}

	type key struct {
		kind model.PersonKind
		id   uint64
		role string
	}
	seen := make(map[key]struct{}, len(in.Entries))
	rows := make([]model.DailyRoleAssignment, 0, len(in.Entries))
	for _, e := range in.Entries {
		role := strings.TrimSpace(e.Role)
		if role == "" {
			return validation("every assignment needs a role")
		}
		if !e.Person.Kind.Valid() {
			return validation("person kind must be MILITARY or CIVILIAN")
		}
		if e.Person.ID == 0 {
			return validation("every assignment needs a person id")
		}
		k := key{kind: e.Person.Kind, id: e.Person.ID, role: role}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		rows = append(rows, model.DailyRoleAssignment{
			Role:     role,
			Person:   e.Person,
			StartsAt: newStart,
			EndsAt:   newEnd,
		})
	}

	if err := d.Store.ReplaceBatch(ctx, originalStart, newStart, newEnd, rows); err != nil {
		return internal("failed to save service roster", err)
	}
	return nil
}

// ClearDay deletes the batch active on the given date.  A day with no
// batch clears successfully.
func (d *DailyService) ClearDay(ctx context.Context, date string) error {
	windowStart, windowEnd, err := dayWindow(date)
	if err != nil {
		return validation("date is required in YYYY-MM-DD format")
	}
	batchStart, found, err := d.Store.FindActiveBatchStart(ctx, windowStart, windowEnd)
	if err != nil {
		return internal("failed to look up service roster", err)
	}
	if !found {
		return nil
	}
	if err := d.Store.DeleteByBatchStart(ctx, batchStart); err != nil {
		return internal("failed to clear service roster", err)
	}
	return nil
}
