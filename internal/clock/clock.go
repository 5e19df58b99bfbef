package clock

import "time"

// Clock lets services take time as a dependency.
type Clock interface {
	Now() time.Time
}

type system struct{}

func NewSystem() Clock { return system{} }

func (system) Now() time.Time { return time.Now().UTC() }

type fixed struct{ t time.Time }

// NewFixed returns a clock pinned to one instant, for tests.
func NewFixed(t time.Time) Clock { return fixed{t: t.UTC()} }

func (f fixed) Now() time.Time { return f.t }
