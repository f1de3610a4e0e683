package tracker

import "time"

const (
	DefaultMinRefreshInterval = 5 * time.Second
	DefaultMaxBreakMinutes    = 240
	DefaultMinClockOutNoteLen = 10
	DefaultProductivityScore  = 8
)

// Options tunes a Tracker. Zero fields take the defaults above.
type Options struct {
	// MinRefreshInterval is the minimum spacing between admitted refreshes
	// per operator. Negative disables throttling.
	MinRefreshInterval time.Duration
	MaxBreakMinutes    int
	// MinClockOutNoteLen applies to plain clock-out only.
	MinClockOutNoteLen       int
	DefaultProductivityScore int
	// Location decides the calendar day for daily statistics.
	Location *time.Location
	Now      func() time.Time
}

func DefaultOptions() Options {
	return Options{
		MinRefreshInterval:       DefaultMinRefreshInterval,
		MaxBreakMinutes:          DefaultMaxBreakMinutes,
		MinClockOutNoteLen:       DefaultMinClockOutNoteLen,
		DefaultProductivityScore: DefaultProductivityScore,
		Location:                 time.Local,
		Now:                      time.Now,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinRefreshInterval < 0 {
		o.MinRefreshInterval = 0
	} else if o.MinRefreshInterval == 0 {
		o.MinRefreshInterval = d.MinRefreshInterval
	}
	if o.MaxBreakMinutes <= 0 {
		o.MaxBreakMinutes = d.MaxBreakMinutes
	}
	if o.MinClockOutNoteLen <= 0 {
		o.MinClockOutNoteLen = d.MinClockOutNoteLen
	}
	if o.DefaultProductivityScore == 0 {
		o.DefaultProductivityScore = d.DefaultProductivityScore
	}
	if o.Location == nil {
		o.Location = d.Location
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}
