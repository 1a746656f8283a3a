package usage

import "errors"

// ErrLimitReached indicates the user spent their monthly parse budget.
var ErrLimitReached = errors.New("parse limit reached")
