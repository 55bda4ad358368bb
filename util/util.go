package util

import (
	"strconv"
	"strings"
)

// StringListContains returns true if the list of strings contains item.
func StringListContains(list []string, item string) bool {
	if list != nil {
		for i := range list {
			if list[i] == item {
				return true
			}
		}
	}
	return false
}

// Int64ListContains returns true if list contains item.
func Int64ListContains(list []int64, item int64) bool {
	for _, value := range list {
		if value == item {
			return true
		}
	}
	return false
}

// RemoveInt64 returns a copy of list without any occurrence of item.
func RemoveInt64(list []int64, item int64) []int64 {
	result := make([]int64, 0, len(list))
	for _, value := range list {
		if value != item {
			result = append(result, value)
		}
	}
	return result
}

// ParseInt64 parses s as a base-10 int64. The second return value
// is false if s is empty or not a number.
func ParseInt64(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ParseBool understands the values HTML forms and query strings
// typically send for a checkbox. The second return value is false
// for anything else.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "yes", "on":
		return true, true
	case "false", "f", "0", "no", "off":
		return false, true
	}
	return false, false
}

// IdentifierPrefix returns the institution part of an object or file
// identifier, e.g. "test.edu" for "test.edu/bag/data/file.txt".
func IdentifierPrefix(identifier string) string {
	parts := strings.SplitN(identifier, "/", 2)
	return parts[0]
}

