package domain

import "time"

// LearnerDetails carries the privacy-filtered identity fields lifted from the
// sanitized upstream profile.
type LearnerDetails struct {
	UserID       string  `json:"user_id"`
	FirstName    string  `json:"first_name,omitempty"`
	LastName     string  `json:"last_name,omitempty"`
	PrimaryEmail string  `json:"primary_email,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	KarmaPoints  float64 `json:"karma_points,omitempty"`
}

// SnapshotMetadata describes the snapshot itself rather than the learner.
type SnapshotMetadata struct {
	TotalCourses     int       `json:"total_courses"`
	TotalEvents      int       `json:"total_events"`
	TotalEnrollments int       `json:"total_enrollments"`
	Timestamp        time.Time `json:"timestamp"`
	UserID           string    `json:"user_id"`
}

// LearnerSnapshot is the unified, normalized view of a learner's profile and
// enrollments at one point in time. The rest of the system treats it as
// ground truth for an entire conversation session.
type LearnerSnapshot struct {
	UserDetails       LearnerDetails     `json:"user_details"`
	EnrollmentSummary EnrollmentSummary  `json:"combined_enrollment_summary"`
	CourseEnrollments []CourseEnrollment `json:"course_enrollments"`
	EventEnrollments  []EventEnrollment  `json:"event_enrollments"`
	Metadata          SnapshotMetadata   `json:"metadata"`
	IsAuthenticated   bool               `json:"is_authenticated"`
	IsRegistered      bool               `json:"is_registered"`
}

// CachedLearnerDetails is the cache-store wire form of a snapshot.
type CachedLearnerDetails struct {
	Snapshot       LearnerSnapshot `json:"snapshot"`
	CacheTimestamp int64           `json:"cache_timestamp"`
	TTLMinutes     int             `json:"ttl_minutes"`
}

// IsExpired applies the entry's own TTL against now. The backing store also
// expires entries independently; this check covers a store configured with a
// longer retention than the entry was written with.
func (c CachedLearnerDetails) IsExpired(now time.Time) bool {
	return now.Unix()-c.CacheTimestamp > int64(c.TTLMinutes)*60
}

// SnapshotSummary is the lightweight projection stored next to the full
// entry, for callers that only need counts.
type SnapshotSummary struct {
	UserID           string  `json:"user_id"`
	FirstName        string  `json:"first_name,omitempty"`
	LastName         string  `json:"last_name,omitempty"`
	PrimaryEmail     string  `json:"primary_email,omitempty"`
	CourseCount      int     `json:"course_count"`
	EventCount       int     `json:"event_count"`
	TotalEnrollments int     `json:"total_enrollments"`
	IsAuthenticated  bool    `json:"is_authenticated"`
	IsRegistered     bool    `json:"is_registered"`
	LastUpdated      string  `json:"last_updated"`
	CacheAgeMinutes  float64 `json:"cache_age_minutes"`
}

// Summary projects the cached entry into its lightweight form.
func (c CachedLearnerDetails) Summary(now time.Time) SnapshotSummary {
	return SnapshotSummary{
		UserID:           c.Snapshot.UserDetails.UserID,
		FirstName:        c.Snapshot.UserDetails.FirstName,
		LastName:         c.Snapshot.UserDetails.LastName,
		PrimaryEmail:     c.Snapshot.UserDetails.PrimaryEmail,
		CourseCount:      c.Snapshot.Metadata.TotalCourses,
		EventCount:       c.Snapshot.Metadata.TotalEvents,
		TotalEnrollments: c.Snapshot.Metadata.TotalEnrollments,
		IsAuthenticated:  c.Snapshot.IsAuthenticated,
		IsRegistered:     c.Snapshot.IsRegistered,
		LastUpdated:      time.Unix(c.CacheTimestamp, 0).UTC().Format(time.RFC3339),
		CacheAgeMinutes:  now.Sub(time.Unix(c.CacheTimestamp, 0)).Minutes(),
	}
}
