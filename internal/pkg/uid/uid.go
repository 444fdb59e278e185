package uid

// StringID generates opaque string identifiers (correlation IDs, lock tokens).
type StringID interface {
	Generate() string
}

// NumberID generates sortable numeric identifiers for database rows.
type NumberID interface {
	Generate() int64
}
