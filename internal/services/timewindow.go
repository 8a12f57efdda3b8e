package services

import (
	"sort"
	"time"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
)

// Time-window rules for a session. Every caller derives these from the
// stored row plus a clock instant; nothing here is ever cached.

// WithinAttendanceWindow reports whether now falls inside
// [scheduled_at, scheduled_at + duration]. Both boundary instants count
// as inside.
func WithinAttendanceWindow(session *models.ClassSession, now time.Time) bool {
	if now.Before(session.ScheduledAt) {
		return false
	}
	return !now.After(session.EndsAt())
}

// WindowElapsed reports whether the session's window is fully in the past.
func WindowElapsed(session *models.ClassSession, now time.Time) bool {
	return now.After(session.EndsAt())
}

// CanAttend is the attendance gate: only a still-scheduled session inside
// its time window may be attended.
func CanAttend(session *models.ClassSession, now time.Time) bool {
	return session.Status == models.SessionScheduled && WithinAttendanceWindow(session, now)
}

// CanJoin is the sole gate for exposing the meeting link or location:
// both parties must have marked attendance.
func CanJoin(session *models.ClassSession) bool {
	return session.Attendance.TutorAttended && session.Attendance.StudentAttended
}

// WeekOf returns the Monday on or before ref (at 00:00 UTC) and the
// following Sunday.
func WeekOf(ref time.Time) (weekStart, weekEnd time.Time) {
	day := ref.UTC().Truncate(24 * time.Hour)
	daysSinceMonday := (int(day.Weekday()) + 6) % 7
	weekStart = day.AddDate(0, 0, -daysSinceMonday)
	weekEnd = weekStart.AddDate(0, 0, 6)
	return weekStart, weekEnd
}

// ProjectWeek buckets the sessions falling in [weekStart, weekStart+7d)
// by weekday (0=Sunday..6=Saturday), chronological within each day.
// Pure transform; no state is held between calls.
func ProjectWeek(
	sessions []models.ClassSession,
	weekStart time.Time,
) map[int][]models.ClassSession {
	weekEnd := weekStart.AddDate(0, 0, 7)

	buckets := make(map[int][]models.ClassSession)
	for _, session := range sessions {
		at := session.ScheduledAt.UTC()
		if at.Before(weekStart) || !at.Before(weekEnd) {
			continue
		}
		day := int(at.Weekday())
		buckets[day] = append(buckets[day], session)
	}
	for day := range buckets {
		bucket := buckets[day]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].ScheduledAt.Before(bucket[j].ScheduledAt)
		})
	}
	return buckets
}
