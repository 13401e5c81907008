package domain

// EventEnrollment is the flat, minimal view of one upstream event-enrollment
// record; same sparsity discipline as CourseEnrollment.
type EventEnrollment struct {
	EventName            string   `json:"event_name,omitempty"`
	EnrolmentDate        string   `json:"event_enrolment_date,omitempty"`
	EventStartTime       string   `json:"event_start_time,omitempty"`
	EventEndTime         string   `json:"event_end_time,omitempty"`
	CompletionPercentage *float64 `json:"event_completion_percentage,omitempty"`
	ConsumptionMinutes   *float64 `json:"event_consumption_time_in_minutes,omitempty"`
	CompletedOn          string   `json:"event_completed_on,omitempty"`
	CompletionStatus     string   `json:"event_completion_status,omitempty"`
	CertificateID        string   `json:"issued_certificate_id,omitempty"`
	CertificateIssuedOn  string   `json:"certificate_issued_on,omitempty"`
}

func (e EventEnrollment) IsEmpty() bool {
	return e == (EventEnrollment{})
}

// NormalizeEvents maps raw event-enrollment entries into EventEnrollment
// records. The upstream shape nests the event description under "event" and
// the learner's progress under "userEventConsumption".
func NormalizeEvents(raw []any) []EventEnrollment {
	out := make([]EventEnrollment, 0, len(raw))

	for _, entry := range raw {
		enrollment, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		var rec EventEnrollment
		rec.EnrolmentDate = StringField(enrollment, "enrolledDate")
		rec.CompletedOn = StringField(enrollment, "completedOn")

		if event := MapField(enrollment, "event"); event != nil {
			rec.EventName = StringField(event, "name")
			rec.EventStartTime = StringField(event, "startDateTime")
			rec.EventEndTime = StringField(event, "endDateTime")
		}

		if consumption := MapField(enrollment, "userEventConsumption"); consumption != nil {
			if pct, ok := NumberField(consumption, "completionPercentage"); ok {
				rec.CompletionPercentage = &pct
			}
			if progress := MapField(consumption, "progressdetails"); progress != nil {
				if duration, ok := NumberField(progress, "duration"); ok {
					rec.ConsumptionMinutes = &duration
				}
			}
		}

		rec.CompletionStatus = completionStatusLabel(enrollment)
		rec.CertificateID, rec.CertificateIssuedOn = firstCertificate(enrollment)

		if !rec.IsEmpty() {
			out = append(out, rec)
		}
	}

	return out
}
