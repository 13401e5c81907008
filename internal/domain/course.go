package domain

// CourseEnrollment is the flat, minimal view of one upstream course-enrollment
// record. Every field is optional: a field is populated only when the source
// value was present and non-empty, and the JSON encoding stays sparse.
type CourseEnrollment struct {
	CourseName             string   `json:"course_name,omitempty"`
	EnrolmentDate          string   `json:"course_enrolment_date,omitempty"`
	BatchStartDate         string   `json:"batch_start_date,omitempty"`
	BatchEndDate           string   `json:"batch_end_date,omitempty"`
	BatchEnrollmentEndDate string   `json:"batch_enrollment_end_date,omitempty"`
	BatchStatus            string   `json:"batch_status,omitempty"`
	CompletionPercentage   *float64 `json:"course_completion_percentage,omitempty"`
	CompletedOn            string   `json:"course_completed_on,omitempty"`
	TotalContentCount      int      `json:"course_total_content_count,omitempty"`
	CompletedContentCount  int      `json:"course_completed_content_count,omitempty"`
	InProgressContentCount int      `json:"course_in_progress_content_count,omitempty"`
	CompletionStatus       string   `json:"course_completion_status,omitempty"`
	CertificateID          string   `json:"issued_certificate_id,omitempty"`
	CertificateIssuedOn    string   `json:"certificate_issued_on,omitempty"`
}

// Status labels derived from upstream numeric codes.
const (
	StatusNotStarted = "not started"
	StatusInProgress = "in progress"
	StatusCompleted  = "completed"

	BatchStatusActive   = "active"
	BatchStatusInactive = "in-active"
)

func (c CourseEnrollment) IsEmpty() bool {
	return c == (CourseEnrollment{})
}

// NormalizeCourses maps raw course-enrollment entries into CourseEnrollment
// records. Non-map entries are skipped silently, records that end up with no
// populated field are excluded, and input order is preserved.
func NormalizeCourses(raw []any) []CourseEnrollment {
	out := make([]CourseEnrollment, 0, len(raw))

	for _, entry := range raw {
		course, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		var rec CourseEnrollment
		rec.CourseName = StringField(course, "courseName")
		rec.EnrolmentDate = StringField(course, "enrolledDate")
		rec.CompletedOn = StringField(course, "completedOn")

		if batch := MapField(course, "batch"); batch != nil {
			rec.BatchStartDate = StringField(batch, "startDate")
			rec.BatchEndDate = StringField(batch, "endDate")
			rec.BatchEnrollmentEndDate = StringField(batch, "enrollmentEndDate")
			if status, ok := NumberField(batch, "status"); ok {
				if status == 1 {
					rec.BatchStatus = BatchStatusActive
				} else {
					rec.BatchStatus = BatchStatusInactive
				}
			}
		}

		if pct, ok := NumberField(course, "completionPercentage"); ok {
			rec.CompletionPercentage = &pct
		}
		if count, ok := NumberField(course, "leafNodesCount"); ok {
			rec.TotalContentCount = int(count)
		}

		completed, inProgress := contentStatusCounts(ListField(course, "contentStatus"))
		rec.CompletedContentCount = completed
		rec.InProgressContentCount = inProgress

		rec.CompletionStatus = completionStatusLabel(course)
		rec.CertificateID, rec.CertificateIssuedOn = firstCertificate(course)

		if !rec.IsEmpty() {
			out = append(out, rec)
		}
	}

	return out
}

// contentStatusCounts tallies the per-item progress array: a value of 2 marks
// a completed content item, 1 marks one in progress.
func contentStatusCounts(statuses []any) (completed, inProgress int) {
	for _, s := range statuses {
		v, ok := s.(float64)
		if !ok {
			continue
		}
		switch v {
		case 2:
			completed++
		case 1:
			inProgress++
		}
	}
	return completed, inProgress
}

// completionStatusLabel maps the upstream numeric status to a label. Codes
// outside 0..2 yield no label rather than an error.
func completionStatusLabel(record map[string]any) string {
	status, ok := NumberField(record, "status")
	if !ok {
		return ""
	}
	switch status {
	case 0:
		return StatusNotStarted
	case 1:
		return StatusInProgress
	case 2:
		return StatusCompleted
	}
	return ""
}

// firstCertificate returns the token and issue date of the first issued
// certificate, when one exists.
func firstCertificate(record map[string]any) (id, issuedOn string) {
	certs := ListField(record, "issuedCertificates")
	if len(certs) == 0 {
		return "", ""
	}
	first, ok := certs[0].(map[string]any)
	if !ok {
		return "", ""
	}
	return StringField(first, "token"), StringField(first, "lastIssuedOn")
}
