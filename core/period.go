package core

import "github.com/huangsam/questlog/schema"

// periodStart aligns d to the first day of its period. Weeks start on Monday.
func periodStart(d schema.Date, p schema.Period) schema.Date {
	switch p {
	case schema.DayPeriod:
		return d
	case schema.WeekPeriod:
		offset := (int(d.Weekday()) + 6) % 7
		return schema.DateOf(d.AddDate(0, 0, -offset))
	default:
		return schema.NewDate(d.Year(), d.Month(), 1)
	}
}

// nextPeriod returns the start of the period after the one starting at start.
func nextPeriod(start schema.Date, p schema.Period) schema.Date {
	switch p {
	case schema.DayPeriod:
		return schema.DateOf(start.AddDate(0, 0, 1))
	case schema.WeekPeriod:
		return schema.DateOf(start.AddDate(0, 0, 7))
	default:
		return schema.NewDate(start.Year(), start.Month()+1, 1)
	}
}

// periodLabel renders a human label for the period starting at start.
func periodLabel(start schema.Date, p schema.Period) string {
	switch p {
	case schema.DayPeriod:
		return start.Format("Jan 02, 2006")
	case schema.WeekPeriod:
		return "Week of " + start.Format("Jan 02, 2006")
	default:
		return start.Format("Jan 2006")
	}
}

// periodStarts lists every period start from first to last inclusive.
func periodStarts(first, last schema.Date, p schema.Period) []schema.Date {
	var out []schema.Date
	for cur := periodStart(first, p); !cur.After(last.Time); cur = nextPeriod(cur, p) {
		out = append(out, cur)
	}
	return out
}
