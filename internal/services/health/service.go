package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Service reports the API's dependency health. A nil DB means the
// in-memory repositories are active, which is healthy in dev.
type Service struct {
	DB          *sql.DB
	QueueDriver string
	StoreType   string
}

// Status is the health payload. OK goes false only when a configured
// dependency fails its check.
type Status struct {
	OK         bool              `json:"ok"`
	Components map[string]string `json:"components"`
}

// Check pings configured dependencies and reports per-component state.
func (s *Service) Check(ctx context.Context) Status {
	st := Status{OK: true, Components: map[string]string{}}

	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			st.OK = false
			st.Components["database"] = "down"
		} else {
			st.Components["database"] = "up"
		}
	} else {
		st.Components["database"] = "memory"
	}

	if s.QueueDriver == "" || s.QueueDriver == "none" {
		st.Components["queue"] = "inline"
	} else {
		st.Components["queue"] = s.QueueDriver
	}

	store := s.StoreType
	if store == "" {
		store = "local"
	}
	st.Components["store"] = store

	return st
}
