package services

import (
	"context"
	"time"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
)

type weeklySessionLister interface {
	ListForMemberBetween(ctx context.Context, userID int64, from, to time.Time) ([]models.ClassSession, error)
}

type ScheduleService struct {
	sessionRepo weeklySessionLister
	now         func() time.Time
}

func NewScheduleService(sessionRepo weeklySessionLister) *ScheduleService {
	return &ScheduleService{sessionRepo: sessionRepo, now: time.Now}
}

type WeeklySchedule struct {
	WeekStart time.Time                      `json:"week_start"`
	WeekEnd   time.Time                      `json:"week_end"`
	Sessions  []models.SessionDetail         `json:"sessions"`
	Days      map[int][]models.SessionDetail `json:"days"`
}

// WeeklySchedule projects the caller's sessions for the week containing
// referenceDate (zero value means the current week) into day buckets for
// calendar rendering.
func (s *ScheduleService) WeeklySchedule(
	ctx context.Context,
	actorID int64,
	referenceDate time.Time,
) (*WeeklySchedule, error) {
	if referenceDate.IsZero() {
		referenceDate = s.now()
	}
	weekStart, weekEnd := WeekOf(referenceDate)

	sessions, err := s.sessionRepo.ListForMemberBetween(
		ctx,
		actorID,
		weekStart,
		weekStart.AddDate(0, 0, 7),
	)
	if err != nil {
		return nil, err
	}

	now := s.now()
	details := make([]models.SessionDetail, 0, len(sessions))
	for i := range sessions {
		details = append(details, *DecorateSession(&sessions[i], now))
	}

	days := make(map[int][]models.SessionDetail)
	for _, bucket := range ProjectWeek(sessions, weekStart) {
		for i := range bucket {
			detail := DecorateSession(&bucket[i], now)
			day := int(detail.ScheduledAt.UTC().Weekday())
			days[day] = append(days[day], *detail)
		}
	}

	return &WeeklySchedule{
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Sessions:  details,
		Days:      days,
	}, nil
}
