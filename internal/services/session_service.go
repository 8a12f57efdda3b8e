package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/repository"
)

type SessionService struct {
	classRepo        classReader
	sessionRepo      *repository.SessionRepository
	cancellationRepo *repository.CancellationRepository
	assignmentRepo   *repository.AssignmentRepository
	now              func() time.Time
}

func NewSessionService(
	classRepo classReader,
	sessionRepo *repository.SessionRepository,
	cancellationRepo *repository.CancellationRepository,
	assignmentRepo *repository.AssignmentRepository,
) *SessionService {
	return &SessionService{
		classRepo:        classRepo,
		sessionRepo:      sessionRepo,
		cancellationRepo: cancellationRepo,
		assignmentRepo:   assignmentRepo,
		now:              time.Now,
	}
}

// GetSession assembles the schedule-detail view: the stored row plus the
// derived flags, the active cancellation request and the homework
// summary. The meeting link and location are withheld until both parties
// have attended.
func (s *SessionService) GetSession(
	ctx context.Context,
	actorID int64,
	classID int64,
	sessionNumber int,
) (*models.SessionDetail, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.PartyOf(actorID) == "" {
		return nil, ErrForbidden
	}

	session, err := s.sessionRepo.GetByClassAndNumber(ctx, classID, sessionNumber)
	if err != nil {
		return nil, err
	}

	detail := DecorateSession(session, s.now())

	request, err := s.cancellationRepo.GetActiveBySession(ctx, session.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		detail.CancellationRequest = request
	}

	assignments, err := s.assignmentRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	summary := SummarizeAssignments(assignments)
	detail.Homework = &summary

	return detail, nil
}

// ListClassSessions returns a class's sessions with derived flags, in
// session-number order.
func (s *SessionService) ListClassSessions(
	ctx context.Context,
	actorID int64,
	classID int64,
) ([]models.SessionDetail, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.PartyOf(actorID) == "" {
		return nil, ErrForbidden
	}

	sessions, err := s.sessionRepo.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	details := make([]models.SessionDetail, 0, len(sessions))
	for i := range sessions {
		details = append(details, *DecorateSession(&sessions[i], now))
	}
	return details, nil
}

// ReconcileElapsed is the periodic pass that settles sessions whose
// window fully elapsed: completed when both parties attended, missed
// otherwise. A stale pending cancellation request is rejected first so
// the session can reach a terminal state. Returns how many sessions
// were settled; losing a status race to a concurrent writer skips the
// row rather than failing the pass.
func (s *SessionService) ReconcileElapsed(
	ctx context.Context,
	limit int,
) (int, error) {
	now := s.now().UTC()
	sessions, err := s.sessionRepo.ListElapsed(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	settled := 0
	for i := range sessions {
		session := &sessions[i]

		if session.Status == models.SessionPendingCancellation {
			request, err := s.cancellationRepo.GetActiveBySession(ctx, session.ID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return settled, err
			}
			if err == nil {
				if _, err := s.cancellationRepo.ResolveIfPending(
					ctx,
					request.ID,
					models.CancellationRejected,
				); err != nil && !errors.Is(err, pgx.ErrNoRows) {
					return settled, err
				}
			}
		}

		target := models.SessionMissed
		if CanJoin(session) {
			target = models.SessionCompleted
		}
		if _, err := s.sessionRepo.UpdateStatusIfCurrent(
			ctx,
			session.ID,
			session.Status,
			target,
		); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return settled, err
		}
		settled++
	}
	return settled, nil
}

// DecorateSession computes the derived flags and redacts the join
// details until both parties have attended.
func DecorateSession(session *models.ClassSession, now time.Time) *models.SessionDetail {
	detail := &models.SessionDetail{
		ClassSession: *session,
		CanAttend:    CanAttend(session, now),
		CanJoin:      CanJoin(session),
	}
	if !detail.CanJoin {
		detail.MeetingLink = nil
		detail.Location = nil
	}
	return detail
}
