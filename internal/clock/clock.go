package clock

import "time"

// Clock abstracts time so services can be tested against a fixed instant.
type Clock interface {
	Now() time.Time
}

// Func adapts a plain function to the Clock interface.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

// System returns a clock backed by time.Now, in UTC.
func System() Clock {
	return Func(func() time.Time {
		return time.Now().UTC()
	})
}

// Fixed returns a clock that always reports the same instant.
func Fixed(t time.Time) Clock {
	t = t.UTC()
	return Func(func() time.Time {
		return t
	})
}
