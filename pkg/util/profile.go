package util

import (
	"time"
)

// TimeProfile measures one replay, Bars is the number of klines processed in it
type TimeProfile struct {
	Name               string
	StartTime, EndTime time.Time
	Duration           time.Duration
	Bars               int
}

func StartTimeProfile(args ...string) TimeProfile {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return TimeProfile{StartTime: time.Now(), Name: name}
}

func (p *TimeProfile) TilNow() time.Duration {
	return time.Since(p.StartTime)
}

func (p *TimeProfile) Stop() time.Duration {
	p.EndTime = time.Now()
	p.Duration = p.EndTime.Sub(p.StartTime)
	return p.Duration
}

// BarsPerSecond returns 0 until the profile is stopped
func (p *TimeProfile) BarsPerSecond() float64 {
	if p.Duration <= 0 {
		return 0
	}
	return float64(p.Bars) / p.Duration.Seconds()
}

type logFunction func(format string, args ...interface{})

func (p *TimeProfile) StopAndLog(f logFunction) {
	p.Stop()
	if p.Bars > 0 {
		f("[profile] %s %d bars in %s, %.0f bars/s", p.Name, p.Bars, p.Duration, p.BarsPerSecond())
		return
	}

	f("[profile] %s %s", p.Name, p.Duration)
}
