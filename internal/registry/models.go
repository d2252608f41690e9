package registry

import "time"

// Show is a registered project.
type Show struct {
	Code      string
	Name      string
	Template  string
	Root      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Workfile is one ledger row describing a created workfile.
type Workfile struct {
	ID          int64
	ShowCode    string
	Target      string
	TargetKind  string
	Kind        string
	Version     int
	Path        string
	Placeholder bool
	CreatedAt   time.Time
}

// Filter narrows Workfiles queries. Zero fields match everything.
type Filter struct {
	ShowCode string
	Target   string
	Kind     string
	// Limit caps the number of rows; zero means no limit.
	Limit int
}
