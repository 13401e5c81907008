package domain

// EnrollmentSummary aggregates enrollment counters across both feeds. Every
// counter is omitted when zero; readers must treat "absent" and "zero" as
// equivalent.
type EnrollmentSummary struct {
	KarmaPoints             float64 `json:"karma_points,omitempty"`
	CourseMinutesCompleted  float64 `json:"time_spent_on_completed_courses_in_minutes,omitempty"`
	CoursesNotStarted       int     `json:"total_courses_not_started,omitempty"`
	CoursesInProgress       int     `json:"total_courses_in_progress,omitempty"`
	CoursesCompleted        int     `json:"total_courses_completed,omitempty"`
	CertifiedCoursesCount   int     `json:"certified_courses_count,omitempty"`
	EventMinutesConsumed    float64 `json:"time_spent_on_completed_events_in_minutes,omitempty"`
	EventsNotStarted        int     `json:"total_events_not_started,omitempty"`
	EventsInProgress        int     `json:"total_events_in_progress,omitempty"`
	EventsCompleted         int     `json:"total_events_completed,omitempty"`
	CertifiedEventsCount    int     `json:"certified_events_count,omitempty"`
}

// CourseSummary reduces normalized course records into counters. Karma points
// and time spent come from the userCourseEnrolmentInfo side channel, not from
// the individual records.
func CourseSummary(enrollmentInfo map[string]any, courses []CourseEnrollment) EnrollmentSummary {
	var s EnrollmentSummary

	if karma, ok := NumberField(enrollmentInfo, "karmaPoints"); ok {
		s.KarmaPoints = karma
	}
	if spent, ok := NumberField(enrollmentInfo, "timeSpentOnCompletedCourses"); ok {
		s.CourseMinutesCompleted = spent
	}

	for _, course := range courses {
		switch course.CompletionStatus {
		case StatusNotStarted:
			s.CoursesNotStarted++
		case StatusInProgress:
			s.CoursesInProgress++
		case StatusCompleted:
			s.CoursesCompleted++
		}
		if course.CertificateID != "" {
			s.CertifiedCoursesCount++
		}
	}

	return s
}

// EventSummary reduces normalized event records into counters, summing the
// consumption time across all records.
func EventSummary(events []EventEnrollment) EnrollmentSummary {
	var s EnrollmentSummary

	for _, event := range events {
		if event.ConsumptionMinutes != nil {
			s.EventMinutesConsumed += *event.ConsumptionMinutes
		}
		switch event.CompletionStatus {
		case StatusNotStarted:
			s.EventsNotStarted++
		case StatusInProgress:
			s.EventsInProgress++
		case StatusCompleted:
			s.EventsCompleted++
		}
		if event.CertificateID != "" {
			s.CertifiedEventsCount++
		}
	}

	return s
}

// Merge combines a course summary and an event summary. The two sides write
// disjoint fields by construction, so a shallow overlay of non-zero values is
// sufficient.
func (s EnrollmentSummary) Merge(other EnrollmentSummary) EnrollmentSummary {
	merged := s
	if other.KarmaPoints != 0 {
		merged.KarmaPoints = other.KarmaPoints
	}
	if other.CourseMinutesCompleted != 0 {
		merged.CourseMinutesCompleted = other.CourseMinutesCompleted
	}
	if other.CoursesNotStarted != 0 {
		merged.CoursesNotStarted = other.CoursesNotStarted
	}
	if other.CoursesInProgress != 0 {
		merged.CoursesInProgress = other.CoursesInProgress
	}
	if other.CoursesCompleted != 0 {
		merged.CoursesCompleted = other.CoursesCompleted
	}
	if other.CertifiedCoursesCount != 0 {
		merged.CertifiedCoursesCount = other.CertifiedCoursesCount
	}
	if other.EventMinutesConsumed != 0 {
		merged.EventMinutesConsumed = other.EventMinutesConsumed
	}
	if other.EventsNotStarted != 0 {
		merged.EventsNotStarted = other.EventsNotStarted
	}
	if other.EventsInProgress != 0 {
		merged.EventsInProgress = other.EventsInProgress
	}
	if other.EventsCompleted != 0 {
		merged.EventsCompleted = other.EventsCompleted
	}
	if other.CertifiedEventsCount != 0 {
		merged.CertifiedEventsCount = other.CertifiedEventsCount
	}
	return merged
}

// IsZero reports whether no counter is set.
func (s EnrollmentSummary) IsZero() bool {
	return s == (EnrollmentSummary{})
}
