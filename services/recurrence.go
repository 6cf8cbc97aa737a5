package services

import (
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const (
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
	FrequencySingle   = "single"

	// MaxFollowUps bounds how many occurrences one booking may expand into.
	MaxFollowUps = 52
)

var frequencyIntervals = map[string]int{
	FrequencyWeekly:   7,
	FrequencyBiweekly: 14,
	FrequencyMonthly:  30,
	FrequencySingle:   0,
}

// NormalizeFrequency maps a frequency tag, including the Portuguese names
// used by existing clients, to its canonical value.
func NormalizeFrequency(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "weekly", "semanal":
		return FrequencyWeekly, nil
	case "biweekly", "fortnightly", "quinzenal":
		return FrequencyBiweekly, nil
	case "monthly", "mensal":
		return FrequencyMonthly, nil
	case "single", "one-off", "avulsa", "avulso":
		return FrequencySingle, nil
	default:
		return "", invalidf("unknown frequency %q", value)
	}
}

// IntervalDays is the step between occurrences; 0 means no recurrence.
func IntervalDays(frequency string) int {
	return frequencyIntervals[frequency]
}

// GenerateFollowUps returns n dates after seed spaced by the frequency
// interval. Each date is walked back to the seed's weekday, so a monthly step
// (30 days) lands 2 days earlier than the raw interval.
func GenerateFollowUps(seed time.Time, frequency string, n int) []time.Time {
	interval := IntervalDays(frequency)
	if interval == 0 || n <= 0 {
		return nil
	}

	seed = time.Date(seed.Year(), seed.Month(), seed.Day(), 0, 0, 0, 0, time.UTC)
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:     rrule.DAILY,
		Interval: interval,
		Count:    n + 1,
		Dtstart:  seed,
	})
	if err != nil {
		return nil
	}

	occurrences := rule.All()
	if len(occurrences) <= 1 {
		return nil
	}
	dates := make([]time.Time, 0, n)
	for _, d := range occurrences[1:] {
		dates = append(dates, SnapToWeekday(d, seed.Weekday()))
	}
	return dates
}

// SnapToWeekday walks d backwards until it falls on weekday.
func SnapToWeekday(d time.Time, weekday time.Weekday) time.Time {
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
