package services

import (
	"context"
	"testing"
	"time"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
)

type stubWeeklySessionLister struct {
	sessions []models.ClassSession
	lastUser int64
	lastFrom time.Time
	lastTo   time.Time
}

func (s *stubWeeklySessionLister) ListForMemberBetween(
	_ context.Context,
	userID int64,
	from, to time.Time,
) ([]models.ClassSession, error) {
	s.lastUser = userID
	s.lastFrom = from
	s.lastTo = to
	return s.sessions, nil
}

func TestWeeklyScheduleQueriesTheWholeWeek(t *testing.T) {
	weekStart := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) // Monday
	lister := &stubWeeklySessionLister{
		sessions: []models.ClassSession{
			buildScheduledSession(1, weekStart.AddDate(0, 0, 1).Add(14*time.Hour), 90), // Tue
			buildScheduledSession(2, weekStart.AddDate(0, 0, 4).Add(9*time.Hour), 60),  // Fri
		},
	}
	service := NewScheduleService(lister)
	service.now = func() time.Time { return weekStart.Add(time.Hour) }

	week, err := service.WeeklySchedule(context.Background(), 7, time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("WeeklySchedule: %v", err)
	}

	if lister.lastUser != 7 {
		t.Fatalf("expected query for user 7, got %d", lister.lastUser)
	}
	if !lister.lastFrom.Equal(weekStart) || !lister.lastTo.Equal(weekStart.AddDate(0, 0, 7)) {
		t.Fatalf("expected query range [%v, %v), got [%v, %v)",
			weekStart, weekStart.AddDate(0, 0, 7), lister.lastFrom, lister.lastTo)
	}
	if !week.WeekStart.Equal(weekStart) || !week.WeekEnd.Equal(weekStart.AddDate(0, 0, 6)) {
		t.Fatalf("unexpected week bounds: %v .. %v", week.WeekStart, week.WeekEnd)
	}
	if len(week.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(week.Sessions))
	}
	if len(week.Days[int(time.Tuesday)]) != 1 || len(week.Days[int(time.Friday)]) != 1 {
		t.Fatalf("unexpected day buckets: %+v", week.Days)
	}
}

func TestWeeklyScheduleDefaultsToCurrentWeek(t *testing.T) {
	now := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC) // Thursday
	lister := &stubWeeklySessionLister{}
	service := NewScheduleService(lister)
	service.now = func() time.Time { return now }

	week, err := service.WeeklySchedule(context.Background(), 7, time.Time{})
	if err != nil {
		t.Fatalf("WeeklySchedule: %v", err)
	}
	wantStart := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if !week.WeekStart.Equal(wantStart) {
		t.Fatalf("expected week start %v, got %v", wantStart, week.WeekStart)
	}
	if len(week.Sessions) != 0 {
		t.Fatalf("expected no sessions, got %d", len(week.Sessions))
	}
}
