package schedule

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	DefaultSchedule = Schedule(IntervalSchedule{5 * time.Minute})
)

const (
	// MinInterval is the shortest interval accepted by FromMinutes and ParseInterval.
	MinInterval = time.Second

	// maxMinutes is the largest number of minutes that fits in time.Duration.
	maxMinutes = float64(math.MaxInt64) / float64(time.Minute)
)

// Schedule decides when the next refresh runs.
type Schedule interface {
	cron.Schedule
	fmt.Stringer

	// NeedKickWhenStart reports whether a refresh should run immediately on start.
	NeedKickWhenStart() bool
}

// Parse parses a schedule specification.
//
// A bare number is an interval in minutes, like "5" or "0.5".
// A Go duration is an interval too, like "90s" or "1h".
// Otherwise it is parsed as a cron schedule, like "*/10 * * * *" or "@hourly".
func Parse(spec string) (Schedule, error) {
	spec = strings.TrimSpace(spec)

	if m, err := strconv.ParseFloat(spec, 64); err == nil {
		return FromMinutes(m)
	}

	if _, err := time.ParseDuration(spec); err == nil {
		return ParseInterval(spec)
	}

	return ParseCron(spec)
}

type IntervalSchedule struct {
	Interval time.Duration
}

// FromMinutes makes an IntervalSchedule from the number of minutes.
func FromMinutes(minutes float64) (IntervalSchedule, error) {
	if !(minutes > 0) || math.IsInf(minutes, 0) {
		return IntervalSchedule{}, fmt.Errorf("refresh interval must be greater than 0 minutes but got %v", minutes)
	}
	if minutes >= maxMinutes {
		return IntervalSchedule{}, fmt.Errorf("refresh interval is too long: %v minutes", minutes)
	}
	d := time.Duration(minutes * float64(time.Minute))
	if d < MinInterval {
		return IntervalSchedule{}, fmt.Errorf("refresh interval must be at least %s but got %v minutes", MinInterval, minutes)
	}
	return IntervalSchedule{d}, nil
}

func ParseInterval(spec string) (IntervalSchedule, error) {
	d, err := time.ParseDuration(spec)
	if err != nil {
		return IntervalSchedule{}, err
	}
	if d <= 0 {
		return IntervalSchedule{}, fmt.Errorf("refresh interval must be greater than 0 but got %s", d)
	}
	if d < MinInterval {
		return IntervalSchedule{}, fmt.Errorf("refresh interval must be at least %s but got %s", MinInterval, d)
	}
	return IntervalSchedule{d}, nil
}

// Next returns t plus the interval.
// A non-positive interval is treated as MinInterval, so the cron runner never spins.
func (s IntervalSchedule) Next(t time.Time) time.Time {
	if s.Interval <= 0 {
		return t.Add(MinInterval)
	}
	return t.Add(s.Interval)
}

func (s IntervalSchedule) String() string {
	return s.Interval.String()
}

func (s IntervalSchedule) NeedKickWhenStart() bool {
	return true
}

type CronSchedule struct {
	spec     string
	schedule cron.Schedule
}

func ParseCron(spec string) (CronSchedule, error) {
	switch spec {
	case "@yearly", "@annually":
		spec = "0 0 1 1 ?"
	case "@monthly":
		spec = "0 0 1 * ?"
	case "@weekly":
		spec = "0 0 * * 0"
	case "@daily":
		spec = "0 0 * * ?"
	case "@hourly":
		spec = "0 * * * ?"
	default:
		delimiter := regexp.MustCompile("[ \t]+")

		ss := delimiter.Split(strings.TrimSpace(spec), -1)
		if len(ss) == 4 {
			ss = append(ss, "?")
		}
		spec = strings.Join(ss, " ")
	}

	s, err := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.DowOptional).Parse(spec)
	if err != nil {
		return CronSchedule{}, err
	}

	return CronSchedule{
		spec:     spec,
		schedule: s,
	}, nil
}

func (s CronSchedule) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

func (s CronSchedule) String() string {
	return s.spec
}

// NeedKickWhenStart of CronSchedule is always false, because the cron spec already says when to run.
func (s CronSchedule) NeedKickWhenStart() bool {
	return false
}
