package domain

import (
	"reflect"
	"testing"
)

func TestSanitizeDropsEmptyMaskedAndUUIDValues(t *testing.T) {
	t.Parallel()

	input := map[string]any{
		"firstName":  "Asha",
		"lastName":   "",
		"rootOrgId":  "8f4d1c2a-3b5e-4f6a-9c8d-1e2f3a4b5c6d",
		"maskedMail": "as***@example.com",
		"maskedTel":  "XXXXXX1234",
		"redacted":   "######",
		"dashes":     "----",
		"dots":       "....",
		"empty":      nil,
		"emptyList":  []any{},
		"emptyMap":   map[string]any{},
		"karma":      42.0,
		"active":     true,
	}

	got := Sanitize(input)
	want := map[string]any{
		"firstName": "Asha",
		"karma":     42.0,
		"active":    true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sanitize mismatch:\n got %#v\nwant %#v", got, want)
	}
}

func TestSanitizePreservesIdentityField(t *testing.T) {
	t.Parallel()

	input := map[string]any{
		"identifier":   "550e8400-e29b-41d4-a716-446655440000",
		"sessionToken": "123e4567-e89b-12d3-a456-426614174000",
		"email":        "****@x.com",
	}

	got := Sanitize(input)
	want := map[string]any{
		"identifier": "550e8400-e29b-41d4-a716-446655440000",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("identifier alone should survive:\n got %#v\nwant %#v", got, want)
	}
}

func TestSanitizeRecursesAndPrunesNested(t *testing.T) {
	t.Parallel()

	input := map[string]any{
		"profileDetails": map[string]any{
			"personalDetails": map[string]any{
				"primaryEmail": "asha@example.com",
				"mobile":       "*******890",
			},
			"allUUIDs": map[string]any{
				"a": "8f4d1c2a-3b5e-4f6a-9c8d-1e2f3a4b5c6d",
			},
		},
		"roles": []any{"PUBLIC", "", nil, map[string]any{}},
	}

	got := Sanitize(input)

	profile, ok := got["profileDetails"].(map[string]any)
	if !ok {
		t.Fatalf("expected profileDetails to survive, got %#v", got)
	}
	personal, ok := profile["personalDetails"].(map[string]any)
	if !ok || personal["primaryEmail"] != "asha@example.com" {
		t.Fatalf("expected primaryEmail to survive, got %#v", profile)
	}
	if _, ok := personal["mobile"]; ok {
		t.Fatalf("masked mobile should be dropped, got %#v", personal)
	}
	if _, ok := profile["allUUIDs"]; ok {
		t.Fatalf("nested map that empties out should be dropped, got %#v", profile)
	}
	roles, ok := got["roles"].([]any)
	if !ok || len(roles) != 1 || roles[0] != "PUBLIC" {
		t.Fatalf("expected roles filtered to [PUBLIC], got %#v", got["roles"])
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	t.Parallel()

	input := map[string]any{
		"firstName": "Asha",
		"masked":    "xxxx",
		"nested":    map[string]any{"keep": "yes", "drop": ""},
	}

	once := Sanitize(input)
	twice := Sanitize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("sanitize should be idempotent:\n once %#v\ntwice %#v", once, twice)
	}
}

func TestSanitizeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := map[string]any{
		"firstName": "Asha",
		"drop":      "",
	}
	Sanitize(input)
	if _, ok := input["drop"]; !ok {
		t.Fatalf("input map must not be mutated")
	}
}

func TestIsMaskedValue(t *testing.T) {
	t.Parallel()

	masked := []string{"****", "as***@x.com", "xxx", "XXXX", "##", "---", "..."}
	for _, v := range masked {
		if !IsMaskedValue(v) {
			t.Errorf("expected %q to be masked", v)
		}
	}
	unmasked := []string{"Asha", "a-b", "x.y", "one#two"}
	for _, v := range unmasked {
		if IsMaskedValue(v) {
			t.Errorf("expected %q to be clear", v)
		}
	}
}
