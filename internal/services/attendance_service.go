package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/repository"
)

type classReader interface {
	GetByID(ctx context.Context, classID int64) (*models.Class, error)
}

type AttendanceService struct {
	db        *pgxpool.Pool
	classRepo classReader
	now       func() time.Time
}

func NewAttendanceService(db *pgxpool.Pool, classRepo classReader) *AttendanceService {
	return &AttendanceService{
		db:        db,
		classRepo: classRepo,
		now:       time.Now,
	}
}

type MarkAttendanceResult struct {
	Session      *models.ClassSession
	BothAttended bool
	// BothAttendedNow is set only by the mark that completed the pair,
	// so callers surface the signal exactly once.
	BothAttendedNow bool
}

// Mark records the acting party's attendance. Marking an
// already-attended party is a no-op success; otherwise the session must
// be scheduled and inside its time window. The session row is locked for
// the duration so two concurrent marks serialize.
func (s *AttendanceService) Mark(
	ctx context.Context,
	actorID int64,
	classID int64,
	sessionNumber int,
) (*MarkAttendanceResult, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	party := class.PartyOf(actorID)
	if party == "" {
		return nil, ErrForbidden
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)
	session, err := txSessionRepo.GetByClassAndNumberForUpdate(ctx, classID, sessionNumber)
	if err != nil {
		return nil, err
	}

	if session.Attendance.AttendedBy(party) {
		return &MarkAttendanceResult{
			Session:      session,
			BothAttended: CanJoin(session),
		}, nil
	}

	if !CanAttend(session, s.now()) {
		return nil, ErrOutsideWindow
	}

	updated, err := txSessionRepo.MarkAttendance(ctx, session.ID, party, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	both := CanJoin(updated)
	return &MarkAttendanceResult{
		Session:         updated,
		BothAttended:    both,
		BothAttendedNow: both,
	}, nil
}
