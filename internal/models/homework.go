package models

import "time"

// Assignment is one homework item attached to a session. A session may
// carry any number of assignments; each owns at most one submission and
// at most one grade.
type Assignment struct {
	ID            int64     `json:"id"`
	SessionID     int64     `json:"session_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	AttachmentURL *string   `json:"attachment_url,omitempty"`
	Deadline      time.Time `json:"deadline"`
	AssignedAt    time.Time `json:"assigned_at"`
}

// Submission is write-once: there is no re-submission path.
type Submission struct {
	AssignmentID int64     `json:"assignment_id"`
	FileURL      string    `json:"file_url"`
	Notes        *string   `json:"notes,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
	IsLate       bool      `json:"is_late"`
}

// Grade is write-once; re-grading requires a separate correction path.
type Grade struct {
	AssignmentID int64     `json:"assignment_id"`
	Score        float64   `json:"score"`
	Feedback     *string   `json:"feedback,omitempty"`
	GradedAt     time.Time `json:"graded_at"`
}

// AssignmentDetail is an assignment with whatever lifecycle artifacts
// exist for it so far.
type AssignmentDetail struct {
	Assignment
	Submission *Submission `json:"submission,omitempty"`
	Grade      *Grade      `json:"grade,omitempty"`
}

// Bucket places the assignment in one of the dashboard buckets.
func (d *AssignmentDetail) Bucket() string {
	switch {
	case d.Submission == nil:
		return HomeworkBucketPendingSubmission
	case d.Grade == nil:
		return HomeworkBucketPendingGrade
	default:
		return HomeworkBucketGraded
	}
}

const (
	HomeworkBucketPendingSubmission = "pending_submission"
	HomeworkBucketPendingGrade      = "pending_grade"
	HomeworkBucketGraded            = "graded"
)

// HomeworkSummary is computed by scanning a session's assignments.
type HomeworkSummary struct {
	Total             int `json:"total"`
	PendingSubmission int `json:"pending_submission"`
	PendingGrade      int `json:"pending_grade"`
	Graded            int `json:"graded"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
