package db

import "time"

// Run represents a stored scheduling run
type Run struct {
	ID       string
	Strategy string

	// InputFingerprint identifies the family data the run was scheduled from
	InputFingerprint string
	GroupCount       int

	PreferenceCost int
	AccountingCost float64
	TotalCost      float64
	CreatedAt      time.Time
}

// Assignment represents one family's day within a run
type Assignment struct {
	RunID    string
	FamilyID int
	People   int
	Day      int

	// Rank is the wishlist position of Day, -1 when the day was forced
	Rank int
}
