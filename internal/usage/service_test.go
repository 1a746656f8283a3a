package usage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hiring-backend/internal/candidates"
)

func TestConsumeEnforcesMonthlyLimit(t *testing.T) {
	ctx := context.Background()
	svc := NewService(Defaults{Limit: 2})

	u, err := svc.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u.Plan != DefaultPlan || u.Limit != 2 || u.Used != 0 {
		t.Fatalf("initial usage = %+v", u)
	}
	if u.Remaining() != 2 {
		t.Fatalf("remaining = %d", u.Remaining())
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.Consume(ctx, "user-1", 1); err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
	}
	u, err = svc.Consume(ctx, "user-1", 1)
	if !errors.Is(err, ErrLimitReached) {
		t.Fatalf("over-limit err = %v, want ErrLimitReached", err)
	}
	if u.Used != 2 {
		t.Fatalf("usage alongside limit error = %+v", u)
	}

	// Another user has an untouched budget.
	if _, err := svc.Consume(ctx, "user-2", 1); err != nil {
		t.Fatalf("other user consume: %v", err)
	}
}

func TestResetRestartsWindow(t *testing.T) {
	ctx := context.Background()
	svc := NewService(Defaults{Limit: 1})

	if _, err := svc.Consume(ctx, "user-1", 1); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if _, err := svc.Consume(ctx, "user-1", 1); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("err = %v, want ErrLimitReached", err)
	}

	u, err := svc.Reset(ctx, "user-1")
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if u.Used != 0 {
		t.Fatalf("used after reset = %d", u.Used)
	}
	if _, err := svc.Consume(ctx, "user-1", 1); err != nil {
		t.Fatalf("consume after reset: %v", err)
	}
}

func TestConsumeParseMapsQuotaError(t *testing.T) {
	ctx := context.Background()
	svc := NewService(Defaults{Limit: 1})

	if err := svc.ConsumeParse(ctx, "user-1"); err != nil {
		t.Fatalf("first parse: %v", err)
	}
	err := svc.ConsumeParse(ctx, "user-1")
	if !errors.Is(err, candidates.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want candidates.ErrQuotaExceeded", err)
	}
	if !strings.Contains(err.Error(), "resets ") {
		t.Fatalf("error does not carry reset date: %v", err)
	}
}

func TestNextMonthStart(t *testing.T) {
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		{
			now:  time.Date(2026, 5, 14, 13, 45, 0, 0, time.UTC),
			want: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			now:  time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
			want: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			// First of the month still rolls to the next month.
			now:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		if got := nextMonthStart(tc.now); !got.Equal(tc.want) {
			t.Fatalf("nextMonthStart(%v) = %v, want %v", tc.now, got, tc.want)
		}
	}
}
