package models

import "strings"

// Member identifies a participant by display name.
// Two members are the same member if their names are equal.
type Member string

// DefaultRoster is the fixed roster every group starts with.
// Members added at runtime are appended after these.
var DefaultRoster = []Member{
	"Ngoc Bao",
	"Quang Chien",
	"Khac Dat",
	"Thien Duc",
	"Trong Duc",
	"Khanh Ngoc",
	"Kim Khanh",
	"Mai Trang",
	"Su Uyen",
	"Duc Thuc",
	"Ngoc Son",
}

// NormalizeMember trims surrounding whitespace from a member name.
func NormalizeMember(name string) Member {
	return Member(strings.TrimSpace(name))
}

// ContainsMember reports whether m is in members.
func ContainsMember(members []Member, m Member) bool {
	for _, existing := range members {
		if existing == m {
			return true
		}
	}
	return false
}

// MergeRoster returns defaults followed by every stored member not already present,
// preserving first-seen order and dropping blank names.
func MergeRoster(defaults, stored []Member) []Member {
	seen := make(map[Member]bool, len(defaults)+len(stored))
	merged := make([]Member, 0, len(defaults)+len(stored))
	for _, list := range [][]Member{defaults, stored} {
		for _, m := range list {
			m = NormalizeMember(string(m))
			if m == "" || seen[m] {
				continue
			}
			seen[m] = true
			merged = append(merged, m)
		}
	}
	return merged
}

// CustomMembers returns the members of roster that are not part of defaults.
// Only these are persisted; the defaults are restored from configuration.
func CustomMembers(roster, defaults []Member) []Member {
	custom := make([]Member, 0)
	for _, m := range roster {
		if !ContainsMember(defaults, m) {
			custom = append(custom, m)
		}
	}
	return custom
}
