package clock

import "errors"

var (
	ErrNeverSynced = errors.New("clock never synced")
	ErrStaleOffset = errors.New("clock offset stale")
)
