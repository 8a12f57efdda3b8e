package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
)

type CreateAssignmentInput struct {
	SessionID     int64
	Title         string
	Description   string
	AttachmentURL *string
	Deadline      time.Time
}

type AssignmentListFilter struct {
	ActorID int64
	Role    string
	Bucket  string
	Limit   int
	Offset  int
}

type AssignmentRepository struct {
	db DBTX
}

func NewAssignmentRepository(db DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentDetailColumns = `
	a.id, a.session_id, a.title, a.description, a.attachment_url, a.deadline, a.assigned_at,
	s.assignment_id, s.file_url, s.notes, s.submitted_at, s.is_late,
	g.assignment_id, g.score, g.feedback, g.graded_at
`

const assignmentDetailJoins = `
	FROM assignments a
	LEFT JOIN submissions s ON s.assignment_id = a.id
	LEFT JOIN grades g ON g.assignment_id = a.id
`

func (r *AssignmentRepository) Create(
	ctx context.Context,
	input CreateAssignmentInput,
) (*models.Assignment, error) {
	query := `
		INSERT INTO assignments (session_id, title, description, attachment_url, deadline)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, session_id, title, description, attachment_url, deadline, assigned_at
	`
	var assignment models.Assignment
	err := r.db.QueryRow(
		ctx,
		query,
		input.SessionID,
		input.Title,
		input.Description,
		input.AttachmentURL,
		input.Deadline,
	).Scan(
		&assignment.ID,
		&assignment.SessionID,
		&assignment.Title,
		&assignment.Description,
		&assignment.AttachmentURL,
		&assignment.Deadline,
		&assignment.AssignedAt,
	)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) GetDetail(
	ctx context.Context,
	assignmentID int64,
) (*models.AssignmentDetail, error) {
	query := `SELECT ` + assignmentDetailColumns + assignmentDetailJoins + ` WHERE a.id = $1`
	return scanAssignmentDetail(r.db.QueryRow(ctx, query, assignmentID))
}

// GetDetailForUpdate locks the assignment row so a racing submit or
// grade serializes behind the current transaction.
func (r *AssignmentRepository) GetDetailForUpdate(
	ctx context.Context,
	assignmentID int64,
) (*models.AssignmentDetail, error) {
	query := `SELECT ` + assignmentDetailColumns + assignmentDetailJoins + `
		WHERE a.id = $1
		FOR UPDATE OF a`
	return scanAssignmentDetail(r.db.QueryRow(ctx, query, assignmentID))
}

func (r *AssignmentRepository) ListBySession(
	ctx context.Context,
	sessionID int64,
) ([]models.AssignmentDetail, error) {
	query := `SELECT ` + assignmentDetailColumns + assignmentDetailJoins + `
		WHERE a.session_id = $1
		ORDER BY a.assigned_at ASC, a.id ASC`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignmentDetails(rows)
}

// ListForMember backs the homework dashboards: every assignment in the
// caller's classes, optionally narrowed to one lifecycle bucket.
func (r *AssignmentRepository) ListForMember(
	ctx context.Context,
	filter AssignmentListFilter,
) ([]models.AssignmentDetail, error) {
	where, args := memberFilterClauses(filter)
	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s %s
		JOIN class_sessions cs ON cs.id = a.session_id
		JOIN classes c ON c.id = cs.class_id
		WHERE %s
		ORDER BY a.deadline ASC, a.id ASC
		LIMIT $%d OFFSET $%d`,
		assignmentDetailColumns, assignmentDetailJoins,
		strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignmentDetails(rows)
}

func (r *AssignmentRepository) CountForMember(
	ctx context.Context,
	filter AssignmentListFilter,
) (int, error) {
	where, args := memberFilterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) %s
		JOIN class_sessions cs ON cs.id = a.session_id
		JOIN classes c ON c.id = cs.class_id
		WHERE %s`,
		assignmentDetailJoins, strings.Join(where, " AND "))

	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *AssignmentRepository) CreateSubmission(
	ctx context.Context,
	assignmentID int64,
	fileURL string,
	notes *string,
	submittedAt time.Time,
	isLate bool,
) (*models.Submission, error) {
	query := `
		INSERT INTO submissions (assignment_id, file_url, notes, submitted_at, is_late)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING assignment_id, file_url, notes, submitted_at, is_late
	`
	var submission models.Submission
	err := r.db.QueryRow(ctx, query, assignmentID, fileURL, notes, submittedAt, isLate).Scan(
		&submission.AssignmentID,
		&submission.FileURL,
		&submission.Notes,
		&submission.SubmittedAt,
		&submission.IsLate,
	)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *AssignmentRepository) CreateGrade(
	ctx context.Context,
	assignmentID int64,
	score float64,
	feedback *string,
) (*models.Grade, error) {
	query := `
		INSERT INTO grades (assignment_id, score, feedback)
		VALUES ($1, $2, $3)
		RETURNING assignment_id, score, feedback, graded_at
	`
	var grade models.Grade
	err := r.db.QueryRow(ctx, query, assignmentID, score, feedback).Scan(
		&grade.AssignmentID,
		&grade.Score,
		&grade.Feedback,
		&grade.GradedAt,
	)
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func memberFilterClauses(filter AssignmentListFilter) ([]string, []any) {
	actorColumn := "c.student_id"
	if filter.Role == models.RoleTutor {
		actorColumn = "c.tutor_id"
	}
	where := []string{fmt.Sprintf("%s = $1", actorColumn)}
	args := []any{filter.ActorID}

	switch filter.Bucket {
	case models.HomeworkBucketPendingSubmission:
		where = append(where, "s.assignment_id IS NULL")
	case models.HomeworkBucketPendingGrade:
		where = append(where, "s.assignment_id IS NOT NULL", "g.assignment_id IS NULL")
	case models.HomeworkBucketGraded:
		where = append(where, "g.assignment_id IS NOT NULL")
	}
	return where, args
}

func scanAssignmentDetail(row rowScanner) (*models.AssignmentDetail, error) {
	var (
		detail       models.AssignmentDetail
		subID        *int64
		subFileURL   *string
		subNotes     *string
		subAt        *time.Time
		subLate      *bool
		gradeID      *int64
		gradeScore   *float64
		gradeComment *string
		gradedAt     *time.Time
	)
	err := row.Scan(
		&detail.ID,
		&detail.SessionID,
		&detail.Title,
		&detail.Description,
		&detail.AttachmentURL,
		&detail.Deadline,
		&detail.AssignedAt,
		&subID,
		&subFileURL,
		&subNotes,
		&subAt,
		&subLate,
		&gradeID,
		&gradeScore,
		&gradeComment,
		&gradedAt,
	)
	if err != nil {
		return nil, err
	}
	if subID != nil {
		detail.Submission = &models.Submission{
			AssignmentID: *subID,
			FileURL:      *subFileURL,
			Notes:        subNotes,
			SubmittedAt:  *subAt,
			IsLate:       *subLate,
		}
	}
	if gradeID != nil {
		detail.Grade = &models.Grade{
			AssignmentID: *gradeID,
			Score:        *gradeScore,
			Feedback:     gradeComment,
			GradedAt:     *gradedAt,
		}
	}
	return &detail, nil
}

func collectAssignmentDetails(rows interface {
	rowScanner
	Next() bool
	Err() error
}) ([]models.AssignmentDetail, error) {
	details := make([]models.AssignmentDetail, 0)
	for rows.Next() {
		detail, err := scanAssignmentDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
