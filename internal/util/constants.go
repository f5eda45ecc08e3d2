package util

const (
	// ApplicationDateFormat is the human-readable rendering appended to a
	// duplicated exam's title.
	ApplicationDateFormat = "02/01/2006"
)
