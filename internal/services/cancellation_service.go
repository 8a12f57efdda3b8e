package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/repository"
)

const minCancellationReasonLength = 10

type CancellationService struct {
	db        *pgxpool.Pool
	classRepo classReader
}

func NewCancellationService(db *pgxpool.Pool, classRepo classReader) *CancellationService {
	return &CancellationService{db: db, classRepo: classRepo}
}

// Request opens a cancellation negotiation on a still-scheduled session
// and parks the session in pending_cancellation until the counterparty
// responds.
func (s *CancellationService) Request(
	ctx context.Context,
	actorID int64,
	classID int64,
	sessionNumber int,
	reason string,
) (*models.CancellationRequest, error) {
	if err := validateCancellationReason(reason); err != nil {
		return nil, err
	}

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
	txCancellationRepo := repository.NewCancellationRepository(tx)

	session, err := txSessionRepo.GetByClassAndNumberForUpdate(ctx, classID, sessionNumber)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionScheduled {
		return nil, ErrInvalidState
	}

	request, err := txCancellationRepo.Create(ctx, session.ID, party, strings.TrimSpace(reason))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrConflict
		}
		return nil, err
	}

	if _, err := txSessionRepo.UpdateStatusIfCurrent(
		ctx,
		session.ID,
		models.SessionScheduled,
		models.SessionPendingCancellation,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return request, nil
}

// Respond resolves the active request. Only the counterparty may
// resolve; approval cancels the session, rejection restores it to
// scheduled with attendance and homework untouched.
func (s *CancellationService) Respond(
	ctx context.Context,
	actorID int64,
	classID int64,
	sessionNumber int,
	action string,
) (*models.ClassSession, error) {
	approve, err := parseCancellationAction(action)
	if err != nil {
		return nil, err
	}

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
	txCancellationRepo := repository.NewCancellationRepository(tx)

	session, err := txSessionRepo.GetByClassAndNumberForUpdate(ctx, classID, sessionNumber)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionPendingCancellation {
		return nil, ErrInvalidState
	}

	request, err := txCancellationRepo.GetActiveBySession(ctx, session.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidState
		}
		return nil, err
	}
	if request.RequestedBy == party {
		return nil, ErrForbidden
	}

	requestStatus := models.CancellationRejected
	sessionStatus := models.SessionScheduled
	if approve {
		requestStatus = models.CancellationApproved
		sessionStatus = models.SessionCancelled
	}

	if _, err := txCancellationRepo.ResolveIfPending(ctx, request.ID, requestStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConflict
		}
		return nil, err
	}

	updated, err := txSessionRepo.UpdateStatusIfCurrent(
		ctx,
		session.ID,
		models.SessionPendingCancellation,
		sessionStatus,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func validateCancellationReason(reason string) error {
	if utf8.RuneCountInString(strings.TrimSpace(reason)) < minCancellationReasonLength {
		return ErrInvalidInput
	}
	return nil
}

func parseCancellationAction(action string) (approve bool, err error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "approve", "approved":
		return true, nil
	case "reject", "rejected":
		return false, nil
	default:
		return false, ErrInvalidInput
	}
}
