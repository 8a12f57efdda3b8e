package repository

import (
	"context"
	"time"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
)

type CreateSessionInput struct {
	ClassID         int64
	SessionNumber   int
	ScheduledAt     time.Time
	DurationMinutes int
	LearningMode    string
	MeetingLink     *string
	Location        *string
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	id, class_id, session_number, scheduled_at, duration_min, learning_mode,
	status, meeting_link, location, notes,
	tutor_attended, tutor_attended_at, student_attended, student_attended_at,
	created_at, updated_at
`

// CreateMissing inserts materialized occurrences, skipping numbers that
// already exist so re-materializing a class is idempotent.
func (r *SessionRepository) CreateMissing(ctx context.Context, inputs []CreateSessionInput) (int, error) {
	query := `
		INSERT INTO class_sessions (
			class_id, session_number, scheduled_at, duration_min, learning_mode,
			status, meeting_link, location
		)
		VALUES ($1, $2, $3, $4, $5, 'scheduled', $6, $7)
		ON CONFLICT (class_id, session_number) DO NOTHING
	`
	created := 0
	for _, input := range inputs {
		tag, err := r.db.Exec(
			ctx,
			query,
			input.ClassID,
			input.SessionNumber,
			input.ScheduledAt,
			input.DurationMinutes,
			input.LearningMode,
			input.MeetingLink,
			input.Location,
		)
		if err != nil {
			return created, err
		}
		created += int(tag.RowsAffected())
	}
	return created, nil
}

func (r *SessionRepository) GetByClassAndNumber(
	ctx context.Context,
	classID int64,
	sessionNumber int,
) (*models.ClassSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM class_sessions
		WHERE class_id = $1 AND session_number = $2
	`
	return scanSession(r.db.QueryRow(ctx, query, classID, sessionNumber))
}

func (r *SessionRepository) GetByClassAndNumberForUpdate(
	ctx context.Context,
	classID int64,
	sessionNumber int,
) (*models.ClassSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM class_sessions
		WHERE class_id = $1 AND session_number = $2
		FOR UPDATE
	`
	return scanSession(r.db.QueryRow(ctx, query, classID, sessionNumber))
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.ClassSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM class_sessions
		WHERE id = $1
	`
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) ListByClass(ctx context.Context, classID int64) ([]models.ClassSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM class_sessions
		WHERE class_id = $1
		ORDER BY session_number ASC
	`
	rows, err := r.db.Query(ctx, query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// ListForMemberBetween returns the sessions of every class the user is a
// party to, scheduled in [from, to).
func (r *SessionRepository) ListForMemberBetween(
	ctx context.Context,
	userID int64,
	from, to time.Time,
) ([]models.ClassSession, error) {
	query := `
		SELECT ` + sessionColumnsPrefixed("s") + `
		FROM class_sessions s
		JOIN classes c ON c.id = s.class_id
		WHERE (c.tutor_id = $1 OR c.student_id = $1)
		  AND s.scheduled_at >= $2
		  AND s.scheduled_at < $3
		ORDER BY s.scheduled_at ASC, s.id ASC
	`
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// ListElapsed returns non-terminal sessions whose attendance window has
// fully elapsed, for the reconciliation pass.
func (r *SessionRepository) ListElapsed(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]models.ClassSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM class_sessions
		WHERE status IN ('scheduled', 'pending_cancellation')
		  AND (scheduled_at + (duration_min * INTERVAL '1 minute')) < $1
		ORDER BY scheduled_at ASC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// UpdateStatusIfCurrent is a compare-and-swap on the session status.
// It returns pgx.ErrNoRows when the row moved off currentStatus, which
// callers surface as a lost race or an invalid transition.
func (r *SessionRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	sessionID int64,
	currentStatus string,
	nextStatus string,
) (*models.ClassSession, error) {
	query := `
		UPDATE class_sessions
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query, sessionID, currentStatus, nextStatus))
}

// MarkAttendance sets one party's attended flag. The flag is write-once
// at the SQL level: an already-attended party leaves the row unchanged.
func (r *SessionRepository) MarkAttendance(
	ctx context.Context,
	sessionID int64,
	party string,
	at time.Time,
) (*models.ClassSession, error) {
	column := "student_attended"
	if party == models.RoleTutor {
		column = "tutor_attended"
	}
	query := `
		UPDATE class_sessions
		SET ` + column + ` = TRUE, ` + column + `_at = $2, updated_at = NOW()
		WHERE id = $1 AND NOT ` + column + `
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query, sessionID, at))
}

func sessionColumnsPrefixed(alias string) string {
	return alias + `.id, ` + alias + `.class_id, ` + alias + `.session_number, ` +
		alias + `.scheduled_at, ` + alias + `.duration_min, ` + alias + `.learning_mode, ` +
		alias + `.status, ` + alias + `.meeting_link, ` + alias + `.location, ` + alias + `.notes, ` +
		alias + `.tutor_attended, ` + alias + `.tutor_attended_at, ` +
		alias + `.student_attended, ` + alias + `.student_attended_at, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}

func scanSession(row rowScanner) (*models.ClassSession, error) {
	var session models.ClassSession
	err := row.Scan(
		&session.ID,
		&session.ClassID,
		&session.SessionNumber,
		&session.ScheduledAt,
		&session.DurationMinutes,
		&session.LearningMode,
		&session.Status,
		&session.MeetingLink,
		&session.Location,
		&session.Notes,
		&session.Attendance.TutorAttended,
		&session.Attendance.TutorAttendedAt,
		&session.Attendance.StudentAttended,
		&session.Attendance.StudentAttendedAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func collectSessions(rows interface {
	rowScanner
	Next() bool
	Err() error
}) ([]models.ClassSession, error) {
	sessions := make([]models.ClassSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
