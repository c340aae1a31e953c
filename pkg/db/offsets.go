package db

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"

	"gorm.io/datatypes"
)

var legacyOffsetPattern = regexp.MustCompile(`^T-(\d+)$`)

// ParseOffsets decodes a stored offset array into a sorted set of
// positive day counts. Malformed data yields nil, which callers treat
// as "no offsets" rather than an error.
func ParseOffsets(raw datatypes.JSON) []int {
	if len(raw) == 0 {
		return nil
	}
	var values []int
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}

	seen := make(map[int]bool, len(values))
	offsets := make([]int, 0, len(values))
	for _, value := range values {
		if value <= 0 || seen[value] {
			continue
		}
		seen[value] = true
		offsets = append(offsets, value)
	}
	if len(offsets) == 0 {
		return nil
	}
	sort.Ints(offsets)
	return offsets
}

// EncodeOffsets is the inverse of ParseOffsets for writes.
func EncodeOffsets(offsets []int) datatypes.JSON {
	data, err := json.Marshal(offsets)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(data)
}

// MigrateLegacyOffsets converts a "T-N" string array into the integer
// form. The second return reports whether a rewrite is needed; already
// integer-encoded (or unparseable) values are left alone.
func MigrateLegacyOffsets(raw datatypes.JSON) (datatypes.JSON, bool) {
	if len(raw) == 0 {
		return raw, false
	}
	var entries []string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return raw, false
	}

	offsets := make([]int, 0, len(entries))
	for _, entry := range entries {
		match := legacyOffsetPattern.FindStringSubmatch(entry)
		if match == nil {
			continue
		}
		value, err := strconv.Atoi(match[1])
		if err != nil || value <= 0 {
			continue
		}
		offsets = append(offsets, value)
	}
	sort.Ints(offsets)
	return EncodeOffsets(offsets), true
}
