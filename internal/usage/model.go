package usage

import "time"

// Usage is a user's parse-quota consumption for the current month.
type Usage struct {
	Plan     string    `json:"plan"`
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}

// Remaining reports how many parses are left this period.
func (u Usage) Remaining() int {
	if left := u.Limit - u.Used; left > 0 {
		return left
	}
	return 0
}
