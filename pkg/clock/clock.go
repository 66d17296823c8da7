package clock

import "time"

// Clock supplies the current instant. Services take one by constructor so
// tests can pin "now" without touching process state.
type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always reports the same instant.
type Fixed struct {
	At time.Time
}

func NewFixed(at time.Time) Fixed {
	return Fixed{At: at}
}

func (f Fixed) Now() time.Time { return f.At }

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }
