package util

import (
	"strconv"
)

// ParseUintOrZero converts a path/query parameter to uint, returning 0 on failure.
func ParseUintOrZero(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}
