package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/repository"
)

const maxSessionsPerClass = 200

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type classLister interface {
	classReader
	ListByMember(ctx context.Context, userID int64) ([]models.Class, error)
}

type ClassService struct {
	db        *pgxpool.Pool
	classRepo classLister
	userRepo  userReader
	now       func() time.Time
}

func NewClassService(db *pgxpool.Pool, classRepo classLister, userRepo userReader) *ClassService {
	return &ClassService{
		db:        db,
		classRepo: classRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

type CreateClassInput struct {
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

// CreateClass creates the engagement and materializes its recurring
// schedule into numbered session rows in one transaction. Returns the
// class and the number of sessions created.
func (s *ClassService) CreateClass(
	ctx context.Context,
	tutorID int64,
	input CreateClassInput,
) (*models.Class, int, error) {
	if err := validateClassInput(tutorID, &input); err != nil {
		return nil, 0, err
	}

	student, err := s.userRepo.GetByID(ctx, input.StudentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}
	if student.Role != models.RoleStudent {
		return nil, 0, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txClassRepo := repository.NewClassRepository(tx)
	txSessionRepo := repository.NewSessionRepository(tx)

	class, err := txClassRepo.Create(ctx, repository.CreateClassInput{
		TutorID:         tutorID,
		StudentID:       input.StudentID,
		Subject:         input.Subject,
		LearningMode:    input.LearningMode,
		MeetingLink:     input.MeetingLink,
		Location:        input.Location,
		ScheduleDays:    input.ScheduleDays,
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		StartDate:       input.StartDate.UTC(),
		TotalSessions:   input.TotalSessions,
	})
	if err != nil {
		return nil, 0, err
	}

	occurrences, err := ExpandSchedule(class)
	if err != nil {
		return nil, 0, err
	}
	created, err := txSessionRepo.CreateMissing(ctx, occurrences)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}
	return class, created, nil
}

func (s *ClassService) ListClasses(ctx context.Context, actorID int64) ([]models.Class, error) {
	return s.classRepo.ListByMember(ctx, actorID)
}

func validateClassInput(tutorID int64, input *CreateClassInput) error {
	input.Subject = strings.TrimSpace(input.Subject)
	input.LearningMode = strings.ToLower(strings.TrimSpace(input.LearningMode))

	if input.Subject == "" || input.StudentID <= 0 || input.StudentID == tutorID {
		return ErrInvalidInput
	}
	switch input.LearningMode {
	case models.LearningModeOnline, models.LearningModeOffline:
	default:
		return ErrInvalidInput
	}
	if input.DurationMinutes <= 0 ||
		input.TotalSessions <= 0 || input.TotalSessions > maxSessionsPerClass {
		return ErrInvalidInput
	}
	if input.StartDate.IsZero() {
		return ErrInvalidInput
	}
	if len(input.ScheduleDays) == 0 {
		return ErrInvalidInput
	}
	seen := make(map[int]bool, len(input.ScheduleDays))
	for _, day := range input.ScheduleDays {
		if day < 0 || day > 6 || seen[day] {
			return ErrInvalidInput
		}
		seen[day] = true
	}
	if _, err := time.Parse("15:04", input.StartTime); err != nil {
		return ErrInvalidInput
	}
	return nil
}

// ExpandSchedule walks the calendar from the class start date and emits
// one occurrence per matching weekday until total_sessions are numbered.
func ExpandSchedule(class *models.Class) ([]repository.CreateSessionInput, error) {
	startOfDay, err := time.Parse("15:04", class.StartTime)
	if err != nil {
		return nil, fmt.Errorf("parse class start time: %w", err)
	}

	days := make(map[time.Weekday]bool, len(class.ScheduleDays))
	for _, day := range class.ScheduleDays {
		days[time.Weekday(day)] = true
	}
	if len(days) == 0 {
		return nil, ErrInvalidInput
	}

	date := class.StartDate.UTC().Truncate(24 * time.Hour)
	occurrences := make([]repository.CreateSessionInput, 0, class.TotalSessions)
	for number := 1; number <= class.TotalSessions; date = date.AddDate(0, 0, 1) {
		if !days[date.Weekday()] {
			continue
		}
		scheduledAt := date.Add(
			time.Duration(startOfDay.Hour())*time.Hour +
				time.Duration(startOfDay.Minute())*time.Minute,
		)
		occurrences = append(occurrences, repository.CreateSessionInput{
			ClassID:         class.ID,
			SessionNumber:   number,
			ScheduledAt:     scheduledAt,
			DurationMinutes: class.DurationMinutes,
			LearningMode:    class.LearningMode,
			MeetingLink:     class.MeetingLink,
			Location:        class.Location,
		})
		number++
	}
	return occurrences, nil
}
