package services

import "time"

// calendarDay is a date in a fixed location
type calendarDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, loc *time.Location) calendarDay {
	y, m, d := t.In(loc).Date()
	return calendarDay{y, m, d}
}

func (d calendarDay) previous(loc *time.Location) calendarDay {
	// Noon avoids skipping or repeating a date across DST changes
	return dayOf(time.Date(d.year, d.month, d.day, 12, 0, 0, 0, loc).AddDate(0, 0, -1), loc)
}

// currentStreak counts consecutive calendar days with at least one session,
// walking back from now's day. A day without sessions ends the walk, except
// that an empty today is skipped once so an unfinished day keeps yesterday's streak.
func currentStreak(sessionTimes []time.Time, now time.Time) int {
	loc := now.Location()
	active := make(map[calendarDay]bool, len(sessionTimes))
	for _, t := range sessionTimes {
		active[dayOf(t, loc)] = true
	}

	today := dayOf(now, loc)
	streak := 0
	for day := today; ; day = day.previous(loc) {
		if active[day] {
			streak++
			continue
		}
		if day == today {
			continue
		}
		return streak
	}
}
