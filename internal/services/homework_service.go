package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/repository"
)

type sessionReader interface {
	GetByClassAndNumber(ctx context.Context, classID int64, sessionNumber int) (*models.ClassSession, error)
	GetByID(ctx context.Context, sessionID int64) (*models.ClassSession, error)
}

type HomeworkService struct {
	db             *pgxpool.Pool
	classRepo      classReader
	sessionRepo    sessionReader
	assignmentRepo *repository.AssignmentRepository
	now            func() time.Time
}

func NewHomeworkService(
	db *pgxpool.Pool,
	classRepo classReader,
	sessionRepo sessionReader,
	assignmentRepo *repository.AssignmentRepository,
) *HomeworkService {
	return &HomeworkService{
		db:             db,
		classRepo:      classRepo,
		sessionRepo:    sessionRepo,
		assignmentRepo: assignmentRepo,
		now:            time.Now,
	}
}

type AssignHomeworkInput struct {
	Title         string
	Description   string
	AttachmentURL *string
	Deadline      time.Time
}

// Assign appends a new assignment to the session. Tutor only; a session
// supports any number of concurrent assignments.
func (s *HomeworkService) Assign(
	ctx context.Context,
	actorID int64,
	classID int64,
	sessionNumber int,
	input AssignHomeworkInput,
) (*models.Assignment, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.PartyOf(actorID) != models.RoleTutor {
		return nil, ErrForbidden
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" || input.Description == "" {
		return nil, ErrInvalidInput
	}
	if !input.Deadline.After(s.now()) {
		return nil, ErrInvalidInput
	}

	session, err := s.sessionRepo.GetByClassAndNumber(ctx, classID, sessionNumber)
	if err != nil {
		return nil, err
	}

	return s.assignmentRepo.Create(ctx, repository.CreateAssignmentInput{
		SessionID:     session.ID,
		Title:         input.Title,
		Description:   input.Description,
		AttachmentURL: input.AttachmentURL,
		Deadline:      input.Deadline.UTC(),
	})
}

// ListSessionHomework returns a session's assignments with their
// lifecycle artifacts plus the derived summary.
func (s *HomeworkService) ListSessionHomework(
	ctx context.Context,
	actorID int64,
	classID int64,
	sessionNumber int,
) ([]models.AssignmentDetail, *models.HomeworkSummary, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, nil, err
	}
	if class.PartyOf(actorID) == "" {
		return nil, nil, ErrForbidden
	}

	session, err := s.sessionRepo.GetByClassAndNumber(ctx, classID, sessionNumber)
	if err != nil {
		return nil, nil, err
	}

	details, err := s.assignmentRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, nil, err
	}
	summary := SummarizeAssignments(details)
	return details, &summary, nil
}

// Submit records the student's one-time submission and stores whether it
// arrived past the deadline. The assignment row is locked so a racing
// duplicate loses cleanly.
func (s *HomeworkService) Submit(
	ctx context.Context,
	actorID int64,
	assignmentID int64,
	fileURL string,
	notes *string,
) (*models.Submission, error) {
	if strings.TrimSpace(fileURL) == "" {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txAssignmentRepo := repository.NewAssignmentRepository(tx)
	detail, err := txAssignmentRepo.GetDetailForUpdate(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParty(ctx, actorID, detail.SessionID, models.RoleStudent); err != nil {
		return nil, err
	}
	if detail.Submission != nil {
		return nil, ErrAlreadySubmitted
	}

	submittedAt := s.now().UTC()
	submission, err := txAssignmentRepo.CreateSubmission(
		ctx,
		assignmentID,
		strings.TrimSpace(fileURL),
		notes,
		submittedAt,
		IsLate(submittedAt, detail.Deadline),
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return submission, nil
}

// Grade records the tutor's one-time grade for a submitted assignment.
// Re-grading goes through a separate correction path, not this one.
func (s *HomeworkService) Grade(
	ctx context.Context,
	actorID int64,
	assignmentID int64,
	score float64,
	feedback *string,
) (*models.Grade, error) {
	if err := ValidateScore(score); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txAssignmentRepo := repository.NewAssignmentRepository(tx)
	detail, err := txAssignmentRepo.GetDetailForUpdate(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParty(ctx, actorID, detail.SessionID, models.RoleTutor); err != nil {
		return nil, err
	}
	if detail.Submission == nil {
		return nil, ErrNoSubmission
	}
	if detail.Grade != nil {
		return nil, ErrAlreadyGraded
	}

	grade, err := txAssignmentRepo.CreateGrade(ctx, assignmentID, score, feedback)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return grade, nil
}

// Dashboard lists the caller's assignments across all their classes,
// optionally narrowed to one bucket, newest deadline last.
func (s *HomeworkService) Dashboard(
	ctx context.Context,
	actorID int64,
	role string,
	bucket string,
	limit int,
	offset int,
) ([]models.AssignmentDetail, int, error) {
	switch bucket {
	case "", models.HomeworkBucketPendingSubmission,
		models.HomeworkBucketPendingGrade, models.HomeworkBucketGraded:
	default:
		return nil, 0, ErrInvalidInput
	}

	filter := repository.AssignmentListFilter{
		ActorID: actorID,
		Role:    role,
		Bucket:  bucket,
		Limit:   limit,
		Offset:  offset,
	}
	details, err := s.assignmentRepo.ListForMember(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.assignmentRepo.CountForMember(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// AssignmentClass resolves an assignment back to its owning class, for
// callers that need the parties (e.g. to address a notification).
func (s *HomeworkService) AssignmentClass(
	ctx context.Context,
	assignmentID int64,
) (*models.Class, error) {
	detail, err := s.assignmentRepo.GetDetail(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.GetByID(ctx, detail.SessionID)
	if err != nil {
		return nil, err
	}
	return s.classRepo.GetByID(ctx, session.ClassID)
}

func (s *HomeworkService) requireParty(
	ctx context.Context,
	actorID int64,
	sessionID int64,
	wantedParty string,
) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	class, err := s.classRepo.GetByID(ctx, session.ClassID)
	if err != nil {
		return err
	}
	if class.PartyOf(actorID) != wantedParty {
		return ErrForbidden
	}
	return nil
}

// ValidateScore enforces the 0-10 range and the half-point granularity.
func ValidateScore(score float64) error {
	if score < 0 || score > 10 {
		return ErrOutOfRange
	}
	if score*2 != math.Trunc(score*2) {
		return ErrInvalidInput
	}
	return nil
}

// IsLate reports whether a submission missed the deadline. Submitting at
// the exact deadline instant is on time.
func IsLate(submittedAt, deadline time.Time) bool {
	return submittedAt.After(deadline)
}

// SummarizeAssignments derives the homework counters from an assignment
// list; never stored.
func SummarizeAssignments(details []models.AssignmentDetail) models.HomeworkSummary {
	summary := models.HomeworkSummary{Total: len(details)}
	for i := range details {
		switch details[i].Bucket() {
		case models.HomeworkBucketPendingSubmission:
			summary.PendingSubmission++
		case models.HomeworkBucketPendingGrade:
			summary.PendingGrade++
		default:
			summary.Graded++
		}
	}
	return summary
}
