package db

// Repositories provides access to all database repositories
type Repositories struct {
	Timelines  *TimelineRepository
	Lanes      *LaneRepository
	Clips      *ClipRepository
	Selections *SelectionRepository
	Sequences  *SequenceRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Timelines:  NewTimelineRepository(db),
		Lanes:      NewLaneRepository(db),
		Clips:      NewClipRepository(db),
		Selections: NewSelectionRepository(db),
		Sequences:  NewSequenceRepository(db),
	}
}
