package domain

import "testing"

func TestNormalizeCoursesFullRecord(t *testing.T) {
	t.Parallel()

	raw := []any{
		map[string]any{
			"courseName":           "Data Literacy",
			"enrolledDate":         "2024-01-15 10:00:00",
			"completedOn":          "2024-03-01 18:30:00",
			"completionPercentage": 100.0,
			"leafNodesCount":       10.0,
			"contentStatus":        []any{2.0, 2.0, 2.0, 1.0},
			"status":               2.0,
			"batch": map[string]any{
				"startDate":         "2024-01-01",
				"endDate":           "2024-06-30",
				"enrollmentEndDate": "2024-02-01",
				"status":            1.0,
			},
			"issuedCertificates": []any{
				map[string]any{"token": "cert-123", "lastIssuedOn": "2024-03-02"},
			},
		},
	}

	got := NormalizeCourses(raw)
	if len(got) != 1 {
		t.Fatalf("expected one record, got %d", len(got))
	}
	c := got[0]
	if c.CourseName != "Data Literacy" {
		t.Errorf("course name: got %q", c.CourseName)
	}
	if c.BatchStatus != BatchStatusActive {
		t.Errorf("batch status: got %q, want %q", c.BatchStatus, BatchStatusActive)
	}
	if c.CompletionPercentage == nil || *c.CompletionPercentage != 100 {
		t.Errorf("completion percentage: got %v", c.CompletionPercentage)
	}
	if c.TotalContentCount != 10 {
		t.Errorf("total content count: got %d", c.TotalContentCount)
	}
	if c.CompletedContentCount != 3 || c.InProgressContentCount != 1 {
		t.Errorf("content counts: got completed %d in-progress %d", c.CompletedContentCount, c.InProgressContentCount)
	}
	if c.CompletionStatus != StatusCompleted {
		t.Errorf("completion status: got %q", c.CompletionStatus)
	}
	if c.CertificateID != "cert-123" || c.CertificateIssuedOn != "2024-03-02" {
		t.Errorf("certificate: got %q / %q", c.CertificateID, c.CertificateIssuedOn)
	}
}

func TestNormalizeCoursesStatusLabels(t *testing.T) {
	t.Parallel()

	raw := []any{
		map[string]any{"courseName": "A", "status": 0.0},
		map[string]any{"courseName": "B", "status": 1.0},
		map[string]any{"courseName": "C", "status": 2.0},
		map[string]any{"courseName": "D", "status": 7.0},
	}

	got := NormalizeCourses(raw)
	if len(got) != 4 {
		t.Fatalf("expected four records, got %d", len(got))
	}
	wantLabels := []string{StatusNotStarted, StatusInProgress, StatusCompleted, ""}
	for i, want := range wantLabels {
		if got[i].CompletionStatus != want {
			t.Errorf("record %d: got %q, want %q", i, got[i].CompletionStatus, want)
		}
	}
}

func TestNormalizeCoursesBatchStatusInactiveWhenNotOne(t *testing.T) {
	t.Parallel()

	raw := []any{
		map[string]any{"batch": map[string]any{"status": 2.0}},
	}
	got := NormalizeCourses(raw)
	if len(got) != 1 || got[0].BatchStatus != BatchStatusInactive {
		t.Fatalf("expected inactive batch, got %#v", got)
	}
}

func TestNormalizeCoursesSkipsMalformedAndEmpty(t *testing.T) {
	t.Parallel()

	raw := []any{
		"not a map",
		nil,
		map[string]any{},
		map[string]any{"unknownField": "ignored"},
		map[string]any{"courseName": "Kept"},
	}

	got := NormalizeCourses(raw)
	if len(got) != 1 || got[0].CourseName != "Kept" {
		t.Fatalf("expected only the populated record, got %#v", got)
	}
}

func TestNormalizeCoursesOmitsZeroContentCounts(t *testing.T) {
	t.Parallel()

	raw := []any{
		map[string]any{
			"courseName":     "Fresh",
			"leafNodesCount": 0.0,
			"contentStatus":  []any{0.0, 0.0},
		},
	}

	got := NormalizeCourses(raw)
	if len(got) != 1 {
		t.Fatalf("expected one record, got %d", len(got))
	}
	c := got[0]
	if c.TotalContentCount != 0 || c.CompletedContentCount != 0 || c.InProgressContentCount != 0 {
		t.Fatalf("zero counts must stay zero, got %#v", c)
	}
}
