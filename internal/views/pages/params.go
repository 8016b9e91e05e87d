package pages

import (
	"strconv"
	"strings"
)

// ParseID converts a positive decimal identifier, returning 0 for anything else.
func ParseID(value string) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed <= 0 {
		return 0
	}
	return parsed
}

// ParseIDs converts every value with ParseID, skipping the invalid ones.
func ParseIDs(values []string) []int {
	ids := make([]int, 0, len(values))
	for _, value := range values {
		if id := ParseID(value); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
