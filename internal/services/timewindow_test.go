package services

import (
	"testing"
	"time"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
)

func buildScheduledSession(id int64, scheduledAt time.Time, durationMinutes int) models.ClassSession {
	return models.ClassSession{
		ID:              id,
		ClassID:         1,
		SessionNumber:   int(id),
		ScheduledAt:     scheduledAt,
		DurationMinutes: durationMinutes,
		LearningMode:    models.LearningModeOnline,
		Status:          models.SessionScheduled,
	}
}

func TestWithinAttendanceWindowBoundaries(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	session := buildScheduledSession(1, start, 90)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one minute early", start.Add(-time.Minute), false},
		{"at start", start, true},
		{"five minutes in", start.Add(5 * time.Minute), true},
		{"at end", start.Add(90 * time.Minute), true},
		{"one second past end", start.Add(90*time.Minute + time.Second), false},
	}
	for _, tc := range cases {
		if got := WithinAttendanceWindow(&session, tc.now); got != tc.want {
			t.Errorf("%s: WithinAttendanceWindow = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanAttendRequiresScheduledStatus(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	inWindow := start.Add(10 * time.Minute)

	session := buildScheduledSession(1, start, 90)
	if !CanAttend(&session, inWindow) {
		t.Fatal("expected scheduled session inside its window to be attendable")
	}

	for _, status := range []string{
		models.SessionPendingCancellation,
		models.SessionCompleted,
		models.SessionCancelled,
		models.SessionMissed,
	} {
		session.Status = status
		if CanAttend(&session, inWindow) {
			t.Errorf("status %q: expected CanAttend to be false", status)
		}
	}
}

func TestCanJoinNeedsBothParties(t *testing.T) {
	session := buildScheduledSession(1, time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC), 90)

	if CanJoin(&session) {
		t.Fatal("expected CanJoin false with no attendance")
	}
	session.Attendance.TutorAttended = true
	if CanJoin(&session) {
		t.Fatal("expected CanJoin false with only the tutor attended")
	}
	session.Attendance.StudentAttended = true
	if !CanJoin(&session) {
		t.Fatal("expected CanJoin true once both parties attended")
	}
}

func TestWindowElapsed(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	session := buildScheduledSession(1, start, 90)

	if WindowElapsed(&session, start.Add(90*time.Minute)) {
		t.Fatal("window should not be elapsed at its last instant")
	}
	if !WindowElapsed(&session, start.Add(91*time.Minute)) {
		t.Fatal("window should be elapsed one minute past the end")
	}
}

func TestWeekOfStartsOnMonday(t *testing.T) {
	cases := []struct {
		name      string
		ref       time.Time
		wantStart time.Time
	}{
		{
			"mid-week wednesday",
			time.Date(2026, 3, 11, 17, 30, 0, 0, time.UTC),
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			"monday maps to itself",
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday belongs to the preceding monday",
			time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC),
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		weekStart, weekEnd := WeekOf(tc.ref)
		if !weekStart.Equal(tc.wantStart) {
			t.Errorf("%s: weekStart = %v, want %v", tc.name, weekStart, tc.wantStart)
		}
		if !weekEnd.Equal(tc.wantStart.AddDate(0, 0, 6)) {
			t.Errorf("%s: weekEnd = %v, want %v", tc.name, weekEnd, tc.wantStart.AddDate(0, 0, 6))
		}
	}
}

func TestProjectWeekBucketsAndSorts(t *testing.T) {
	weekStart := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) // Monday

	sessions := []models.ClassSession{
		buildScheduledSession(1, weekStart.AddDate(0, 0, 2).Add(16*time.Hour), 60),   // Wed 16:00
		buildScheduledSession(2, weekStart.AddDate(0, 0, 2).Add(9*time.Hour), 60),    // Wed 09:00
		buildScheduledSession(3, weekStart.AddDate(0, 0, 5).Add(10*time.Hour), 60),   // Sat 10:00
		buildScheduledSession(4, weekStart.AddDate(0, 0, -1).Add(10*time.Hour), 60),  // previous Sunday
		buildScheduledSession(5, weekStart.AddDate(0, 0, 7).Add(10*time.Hour), 60),   // next Monday
		buildScheduledSession(6, weekStart.AddDate(0, 0, 6).Add(8*time.Hour+30*time.Minute), 60), // Sun 08:30
	}

	buckets := ProjectWeek(sessions, weekStart)

	if len(buckets) != 3 {
		t.Fatalf("expected 3 day buckets, got %d", len(buckets))
	}
	wednesday := buckets[int(time.Wednesday)]
	if len(wednesday) != 2 {
		t.Fatalf("expected 2 Wednesday sessions, got %d", len(wednesday))
	}
	if wednesday[0].ID != 2 || wednesday[1].ID != 1 {
		t.Fatalf("expected Wednesday sessions ordered [2 1], got [%d %d]", wednesday[0].ID, wednesday[1].ID)
	}
	if got := len(buckets[int(time.Saturday)]); got != 1 {
		t.Fatalf("expected 1 Saturday session, got %d", got)
	}
	sunday := buckets[int(time.Sunday)]
	if len(sunday) != 1 || sunday[0].ID != 6 {
		t.Fatalf("expected the in-week Sunday session 6, got %+v", sunday)
	}
}

func TestProjectWeekEmptyInput(t *testing.T) {
	weekStart := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if got := ProjectWeek(nil, weekStart); len(got) != 0 {
		t.Fatalf("expected no buckets, got %d", len(got))
	}
}

func TestDecorateSessionRedactsJoinDetails(t *testing.T) {
	link := "https://meet.example.com/abc"
	location := "Room 12"
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	session := buildScheduledSession(1, start, 90)
	session.MeetingLink = &link
	session.Location = &location

	detail := DecorateSession(&session, start.Add(5*time.Minute))
	if !detail.CanAttend {
		t.Fatal("expected CanAttend inside the window")
	}
	if detail.CanJoin {
		t.Fatal("expected CanJoin false before both parties attended")
	}
	if detail.MeetingLink != nil || detail.Location != nil {
		t.Fatal("expected join details withheld until both parties attend")
	}

	session.Attendance.TutorAttended = true
	session.Attendance.StudentAttended = true
	detail = DecorateSession(&session, start.Add(5*time.Minute))
	if !detail.CanJoin {
		t.Fatal("expected CanJoin after both parties attended")
	}
	if detail.MeetingLink == nil || *detail.MeetingLink != link {
		t.Fatal("expected meeting link exposed once joinable")
	}
	if detail.Location == nil || *detail.Location != location {
		t.Fatal("expected location exposed once joinable")
	}
}
