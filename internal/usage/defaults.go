package usage

import "time"

const (
	// DefaultPlan names the plan every user starts on.
	DefaultPlan = "Free"
	// DefaultMonthlyLimit is how many resume parses a plan includes per
	// calendar month.
	DefaultMonthlyLimit = 50
)

// Defaults seed a user's first usage row and refill it on rollover.
type Defaults struct {
	Plan  string
	Limit int
}

func (d Defaults) normalized() Defaults {
	if d.Plan == "" {
		d.Plan = DefaultPlan
	}
	if d.Limit <= 0 {
		d.Limit = DefaultMonthlyLimit
	}
	return d
}

func (d Defaults) newUsage(now time.Time) Usage {
	return Usage{
		Plan:     d.Plan,
		Limit:    d.Limit,
		ResetsAt: nextMonthStart(now),
	}
}

// nextMonthStart is midnight UTC on the first of the following month.
func nextMonthStart(now time.Time) time.Time {
	y, m, _ := now.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}
