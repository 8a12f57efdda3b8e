package models

import "time"

const (
	SessionScheduled           = "scheduled"
	SessionPendingCancellation = "pending_cancellation"
	SessionCompleted           = "completed"
	SessionCancelled           = "cancelled"
	SessionMissed              = "missed"
)

const (
	CancellationPending  = "pending"
	CancellationApproved = "approved"
	CancellationRejected = "rejected"
)

// ClassSession is one occurrence of a class's recurring schedule.
// Sessions are created when the schedule is materialized and are never
// deleted, only transitioned.
type ClassSession struct {
	ID              int64            `json:"id"`
	ClassID         int64            `json:"class_id"`
	SessionNumber   int              `json:"session_number"`
	ScheduledAt     time.Time        `json:"scheduled_at"`
	DurationMinutes int              `json:"duration_minutes"`
	LearningMode    string           `json:"learning_mode"`
	Status          string           `json:"status"`
	MeetingLink     *string          `json:"meeting_link,omitempty"`
	Location        *string          `json:"location,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	Attendance      AttendanceRecord `json:"attendance"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// EndsAt is the instant the session's attendance window closes.
func (s *ClassSession) EndsAt() time.Time {
	return s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// IsTerminal reports whether no further transition is permitted.
func (s *ClassSession) IsTerminal() bool {
	return s.Status == SessionCompleted ||
		s.Status == SessionCancelled ||
		s.Status == SessionMissed
}

// AttendanceRecord is embedded in the session row. An attended flag,
// once set, is never unset.
type AttendanceRecord struct {
	TutorAttended     bool       `json:"tutor_attended"`
	TutorAttendedAt   *time.Time `json:"tutor_attended_at,omitempty"`
	StudentAttended   bool       `json:"student_attended"`
	StudentAttendedAt *time.Time `json:"student_attended_at,omitempty"`
}

// AttendedBy reports whether the given party already marked attendance.
func (a *AttendanceRecord) AttendedBy(party string) bool {
	if party == RoleTutor {
		return a.TutorAttended
	}
	return a.StudentAttended
}

// CancellationRequest is the two-party negotiation attached to a
// session. At most one pending request exists per session; resolved
// requests are kept for audit.
type CancellationRequest struct {
	ID          int64      `json:"id"`
	SessionID   int64      `json:"session_id"`
	RequestedBy string     `json:"requested_by"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// SessionDetail is the schedule-detail projection: the stored session
// plus everything derived from it. CanAttend and CanJoin are always
// recomputed, never stored; the meeting link and location are withheld
// until both parties have attended.
type SessionDetail struct {
	ClassSession
	CanAttend           bool                 `json:"can_attend"`
	CanJoin             bool                 `json:"can_join"`
	CancellationRequest *CancellationRequest `json:"cancellation_request,omitempty"`
	Homework            *HomeworkSummary     `json:"homework,omitempty"`
}
