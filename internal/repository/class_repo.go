package repository

import (
	"context"
	"time"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
)

type CreateClassInput struct {
	TutorID         int64
	StudentID       int64
	Subject         string
	LearningMode    string
	MeetingLink     *string
	Location        *string
	ScheduleDays    []int
	StartTime       string
	DurationMinutes int
	StartDate       time.Time
	TotalSessions   int
}

type ClassRepository struct {
	db DBTX
}

func NewClassRepository(db DBTX) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = `
	id, tutor_id, student_id, subject, learning_mode, meeting_link, location,
	schedule_days, start_time, duration_min, start_date, total_sessions,
	created_at, updated_at
`

func (r *ClassRepository) Create(ctx context.Context, input CreateClassInput) (*models.Class, error) {
	query := `
		INSERT INTO classes (
			tutor_id, student_id, subject, learning_mode, meeting_link, location,
			schedule_days, start_time, duration_min, start_date, total_sessions
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + classColumns

	row := r.db.QueryRow(
		ctx,
		query,
		input.TutorID,
		input.StudentID,
		input.Subject,
		input.LearningMode,
		input.MeetingLink,
		input.Location,
		input.ScheduleDays,
		input.StartTime,
		input.DurationMinutes,
		input.StartDate,
		input.TotalSessions,
	)
	return scanClass(row)
}

func (r *ClassRepository) GetByID(ctx context.Context, classID int64) (*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE id = $1`
	return scanClass(r.db.QueryRow(ctx, query, classID))
}

func (r *ClassRepository) ListByMember(ctx context.Context, userID int64) ([]models.Class, error) {
	query := `
		SELECT ` + classColumns + `
		FROM classes
		WHERE tutor_id = $1 OR student_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := make([]models.Class, 0)
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *class)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return classes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClass(row rowScanner) (*models.Class, error) {
	var class models.Class
	err := row.Scan(
		&class.ID,
		&class.TutorID,
		&class.StudentID,
		&class.Subject,
		&class.LearningMode,
		&class.MeetingLink,
		&class.Location,
		&class.ScheduleDays,
		&class.StartTime,
		&class.DurationMinutes,
		&class.StartDate,
		&class.TotalSessions,
		&class.CreatedAt,
		&class.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &class, nil
}
