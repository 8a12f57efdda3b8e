package repository

import (
	"context"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
)

type CancellationRepository struct {
	db DBTX
}

func NewCancellationRepository(db DBTX) *CancellationRepository {
	return &CancellationRepository{db: db}
}

const cancellationColumns = `
	id, session_id, requested_by, reason, status, requested_at, resolved_at
`

// Create inserts a pending request. The partial unique index on
// (session_id) WHERE status = 'pending' rejects a second active request
// with a 23505, which the service surfaces as a lost race.
func (r *CancellationRepository) Create(
	ctx context.Context,
	sessionID int64,
	requestedBy string,
	reason string,
) (*models.CancellationRequest, error) {
	query := `
		INSERT INTO cancellation_requests (session_id, requested_by, reason, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING ` + cancellationColumns
	return scanCancellation(r.db.QueryRow(ctx, query, sessionID, requestedBy, reason))
}

func (r *CancellationRepository) GetActiveBySession(
	ctx context.Context,
	sessionID int64,
) (*models.CancellationRequest, error) {
	query := `
		SELECT ` + cancellationColumns + `
		FROM cancellation_requests
		WHERE session_id = $1 AND status = 'pending'
	`
	return scanCancellation(r.db.QueryRow(ctx, query, sessionID))
}

// ResolveIfPending moves the active request to approved or rejected.
// Returns pgx.ErrNoRows when no pending request exists.
func (r *CancellationRepository) ResolveIfPending(
	ctx context.Context,
	requestID int64,
	nextStatus string,
) (*models.CancellationRequest, error) {
	query := `
		UPDATE cancellation_requests
		SET status = $2, resolved_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + cancellationColumns
	return scanCancellation(r.db.QueryRow(ctx, query, requestID, nextStatus))
}

func scanCancellation(row rowScanner) (*models.CancellationRequest, error) {
	var request models.CancellationRequest
	err := row.Scan(
		&request.ID,
		&request.SessionID,
		&request.RequestedBy,
		&request.Reason,
		&request.Status,
		&request.RequestedAt,
		&request.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}
