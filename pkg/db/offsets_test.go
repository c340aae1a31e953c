package db

import (
	"reflect"
	"testing"

	"gorm.io/datatypes"
)

func TestParseOffsets(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []int
	}{
		{"sorted set", `[3,1,2]`, []int{1, 2, 3}},
		{"drops non-positive", `[0,-1,2]`, []int{2}},
		{"drops duplicates", `[1,1,3]`, []int{1, 3}},
		{"malformed is nil", `{"days": 3}`, nil},
		{"legacy strings are nil", `["T-3","T-1"]`, nil},
		{"empty array is nil", `[]`, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseOffsets(datatypes.JSON(tc.raw))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseOffsets(%s) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}

	if got := ParseOffsets(nil); got != nil {
		t.Fatalf("expected nil for empty value, got %v", got)
	}
}

func TestMigrateLegacyOffsets(t *testing.T) {
	migrated, changed := MigrateLegacyOffsets(datatypes.JSON(`["T-3","T-1","T0","junk"]`))
	if !changed {
		t.Fatal("expected legacy encoding to be rewritten")
	}
	if got := ParseOffsets(migrated); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("expected [1 3], got %v", got)
	}

	if _, changed := MigrateLegacyOffsets(datatypes.JSON(`[1,2,3]`)); changed {
		t.Fatal("integer encoding should be left alone")
	}
	if _, changed := MigrateLegacyOffsets(nil); changed {
		t.Fatal("empty value should be left alone")
	}
}
