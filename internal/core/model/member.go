package model

import "strings"

// GroupMember is one person in the dining group. Name is the reconciliation
// key and is compared case-insensitively everywhere.
type GroupMember struct {
	Name              string    `json:"name"`
	Location          string    `json:"location"`
	Diet              string    `json:"diet"`
	Coordinates       []float64 `json:"coordinates"`
	TravelPreferences []string  `json:"travel_preferences"`
}

// ApplyDefaults backfills the fields a parser is allowed to omit.
// Coordinates stays empty until geocoding fills it.
func (m *GroupMember) ApplyDefaults() {
	if m.Diet == "" {
		m.Diet = "none"
	}
	if len(m.TravelPreferences) == 0 {
		m.TravelPreferences = []string{"driving"}
	}
	if m.Coordinates == nil {
		m.Coordinates = []float64{}
	}
}

// HasCoordinates reports whether the member has been geocoded.
// Coordinates is either empty or a full (lat, lng) pair.
func (m *GroupMember) HasCoordinates() bool {
	return len(m.Coordinates) == 2
}

// TravelMode returns the member's preferred transport mode, defaulting to
// driving when none is recorded.
func (m *GroupMember) TravelMode() string {
	if len(m.TravelPreferences) == 0 {
		return "driving"
	}
	return m.TravelPreferences[0]
}

// Directory is the canonical ordered list of group members. It is mutated
// only through Upsert and Remove so the name-uniqueness invariant holds.
type Directory []GroupMember

// Upsert adds a member, or replaces the existing entry with the same name
// (case-insensitive, last write wins). Defaults are backfilled on the way in.
func (d Directory) Upsert(m GroupMember) Directory {
	if strings.TrimSpace(m.Name) == "" {
		return d
	}
	m.ApplyDefaults()
	for i, existing := range d {
		if strings.EqualFold(existing.Name, m.Name) {
			d[i] = m
			return d
		}
	}
	return append(d, m)
}

// Remove drops the member with the given name. A name that is not present is
// a no-op, not an error.
func (d Directory) Remove(name string) Directory {
	for i, m := range d {
		if strings.EqualFold(m.Name, name) {
			return append(d[:i:i], d[i+1:]...)
		}
	}
	return d
}

// Contains reports whether a member with the given name exists.
func (d Directory) Contains(name string) bool {
	for _, m := range d {
		if strings.EqualFold(m.Name, name) {
			return true
		}
	}
	return false
}

// Names returns the member names in directory order.
func (d Directory) Names() []string {
	names := make([]string, 0, len(d))
	for _, m := range d {
		names = append(names, m.Name)
	}
	return names
}

// Clone returns a deep copy so a turn can mutate its directory without
// touching the persisted conversation record.
func (d Directory) Clone() Directory {
	if d == nil {
		return nil
	}
	out := make(Directory, len(d))
	for i, m := range d {
		out[i] = m
		out[i].Coordinates = append([]float64(nil), m.Coordinates...)
		out[i].TravelPreferences = append([]string(nil), m.TravelPreferences...)
	}
	return out
}
