package scheduler

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Trigger expressions come in three forms, tried in order:
//
//  1. explicit time: "at 8", "at 8:30", "at 5pm", optionally gated on a
//     weekday name anywhere in the expression ("every monday at 9am");
//  2. named recurring keyword: "every morning", "every weekday", ...;
//  3. standard 5-field cron: "*/15 * * * *".
//
// Matching is exact-minute equality against the tick instant, so the tick
// period decides how often a task can fire.

var timeRe = regexp.MustCompile(`at (\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

type keywordPattern struct {
	keyword string
	matches func(now time.Time) bool
}

var keywordPatterns = []keywordPattern{
	{"every minute", func(now time.Time) bool { return true }},
	{"every hour", func(now time.Time) bool { return now.Minute() == 0 }},
	{"every day", atClock(8, 0)},
	{"every morning", atClock(8, 0)},
	{"every evening", atClock(18, 0)},
	{"every monday", onDay(time.Monday, 9, 0)},
	{"every friday", onDay(time.Friday, 17, 0)},
	{"every weekday", func(now time.Time) bool {
		return now.Weekday() >= time.Monday && now.Weekday() <= time.Friday && now.Hour() == 9 && now.Minute() == 0
	}},
}

func atClock(hour, minute int) func(time.Time) bool {
	return func(now time.Time) bool {
		return now.Hour() == hour && now.Minute() == minute
	}
}

func onDay(day time.Weekday, hour, minute int) func(time.Time) bool {
	return func(now time.Time) bool {
		return now.Weekday() == day && now.Hour() == hour && now.Minute() == minute
	}
}

// Due reports whether the trigger expression matches the given instant.
// Unparseable expressions never match.
func Due(when string, now time.Time) bool {
	when = strings.ToLower(strings.TrimSpace(when))
	if when == "" {
		return false
	}

	if m := timeRe.FindStringSubmatch(when); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		switch m[3] {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		if now.Hour() != hour || now.Minute() != minute {
			return false
		}
		for name, day := range weekdayNames {
			if strings.Contains(when, name) && now.Weekday() != day {
				return false
			}
		}
		return true
	}

	for _, p := range keywordPatterns {
		if strings.Contains(when, p.keyword) {
			return p.matches(now)
		}
	}

	if schedule, err := cron.ParseStandard(when); err == nil {
		minute := now.Truncate(time.Minute)
		return schedule.Next(minute.Add(-time.Second)).Equal(minute)
	}

	return false
}
