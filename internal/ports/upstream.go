package ports

import "context"

// CourseEnrollmentFeed is the raw course-enrollment payload: the enrollment
// list plus the userCourseEnrolmentInfo side channel (karma points, time
// spent on completed courses).
type CourseEnrollmentFeed struct {
	EnrolmentInfo map[string]any
	Courses       []any
}

// UpstreamClient performs the three learner-platform reads. FetchProfile
// failures are fatal to the pipeline; the two enrollment feeds are
// individually degradable by the caller.
type UpstreamClient interface {
	FetchProfile(ctx context.Context, userID string) (map[string]any, error)
	FetchCourseEnrollments(ctx context.Context, userID string) (CourseEnrollmentFeed, error)
	FetchEventEnrollments(ctx context.Context, userID string) ([]any, error)
}
