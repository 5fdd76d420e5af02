package models

// GroupSummary is a snapshot of a group used for listings.
type GroupSummary struct {
	// Name is the unique identity of the group.
	Name string

	// Members lists member names in the order they joined.
	Members []string

	// Entries is the number of records in the group's audit log.
	Entries int
}
