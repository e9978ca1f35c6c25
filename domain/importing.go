package domain

import "time"

// ImportCounts pairs how many items a legacy import batch carried with how
// many survived ownership filtering and were written.
type ImportCounts struct {
	Requested int `json:"requested"`
	Migrated  int `json:"migrated"`
}

// MigratedCount reports migrations for item kinds that have no meaningful
// request count of their own (likes, comments ride along on their parents).
type MigratedCount struct {
	Migrated int `json:"migrated"`
}

// ImportSummary is the outcome of one legacy import run.
type ImportSummary struct {
	OK        bool          `json:"ok"`
	Tasks     ImportCounts  `json:"tasks"`
	Likes     MigratedCount `json:"likes"`
	Feedbacks ImportCounts  `json:"feedbacks"`
	Comments  MigratedCount `json:"comments"`
}

// ImportReceipt is the journaled record of a completed import run.
type ImportReceipt struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	CreatedAt time.Time     `json:"createdAt"`
	Summary   ImportSummary `json:"summary"`
}
