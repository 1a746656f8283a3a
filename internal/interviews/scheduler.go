package interviews

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// The scheduler stands in for a calendar integration: it hands out
// meeting links and working-hour slots, while actual conflict checks
// run against stored interviews at booking time.

const meetingLinkBase = "https://meet.hiretrack.dev/"

// conflictWindow is how far around a requested start time another
// booking for the same interviewer counts as a conflict.
const conflictWindow = time.Hour

// Working hours for slot generation, local to the requested date.
const (
	workdayStartHour = 9
	workdayEndHour   = 17
	slotStepMinutes  = 30
)

// newMeetingLink returns a fresh meeting URL with a short random token.
// An empty base falls back to the built-in meeting host.
func newMeetingLink(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = meetingLinkBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return base + token[:10]
}

// AvailableSlots lists the half-hour interview start times between
// 9:00 and 17:00 on the given date, dropping any that are not after
// now. Booked slots are not subtracted here; availability is enforced
// per interviewer when a booking is made.
func AvailableSlots(date, now time.Time) []time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	out := make([]time.Time, 0, (workdayEndHour-workdayStartHour)*60/slotStepMinutes)
	for hour := workdayStartHour; hour < workdayEndHour; hour++ {
		for minute := 0; minute < 60; minute += slotStepMinutes {
			slot := day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
			if slot.After(now) {
				out = append(out, slot)
			}
		}
	}
	return out
}
