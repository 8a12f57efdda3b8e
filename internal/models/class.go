package models

import "time"

const (
	LearningModeOnline  = "online"
	LearningModeOffline = "offline"
)

// Class is one tutor/student engagement. Its recurring schedule is
// expanded into numbered class_sessions rows when the class is created.
type Class struct {
	ID              int64     `json:"id"`
	TutorID         int64     `json:"tutor_id"`
	StudentID       int64     `json:"student_id"`
	Subject         string    `json:"subject"`
	LearningMode    string    `json:"learning_mode"`
	MeetingLink     *string   `json:"meeting_link,omitempty"`
	Location        *string   `json:"location,omitempty"`
	ScheduleDays    []int     `json:"schedule_days"`
	StartTime       string    `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	StartDate       time.Time `json:"start_date"`
	TotalSessions   int       `json:"total_sessions"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PartyOf reports which side of the class the user is on, or "" if the
// user is not a member.
func (c *Class) PartyOf(userID int64) string {
	switch userID {
	case c.TutorID:
		return RoleTutor
	case c.StudentID:
		return RoleStudent
	default:
		return ""
	}
}
