package report

import (
	"math"
	"sort"
	"time"

	"snoreguard/guard/defs"

	"github.com/montanaflynn/stats"
)

const (
	// TimestampLayout is the local date-time layout the companion API
	// uses for episode timestamps.
	TimestampLayout = "2006-01-02T15:04:05"

	hourLayout = "15:04"

	// Fixed 8-hour sleep baseline used to normalize snoring time.
	baselineMinutes = 480

	// Interventions closer than this are treated as one run.
	clusterRadius = 30 * time.Minute

	maxIntensity   = 4
	intensityScale = 25
)

// NormalizedEvent is one episode converted to internal units. Events
// whose timestamp fails to parse never make it this far.
type NormalizedEvent struct {
	Time               time.Time
	DurationMinutes    int
	Intensity          int
	InterventionActive bool
	HourBucket         string
	OriginalIndex      int
}

type HourlyBucket struct {
	Hour            string `json:"hour" bson:"hour"`
	Intensity       int    `json:"snoreIntensity" bson:"snoreIntensity"` // 0-100.
	Intervention    bool   `json:"intervention" bson:"intervention"`
	DurationMinutes int    `json:"duration" bson:"duration"`
}

// DaySummary is the per-day analytics artifact. It is computed once per
// (date, event list) pair and never mutated afterwards.
type DaySummary struct {
	Date                     string         `json:"date" bson:"date"`
	TotalSnoringMinutes      int            `json:"totalSnoringTimeMinutes" bson:"totalSnoringTimeMinutes"`
	TotalInterventionMinutes int            `json:"totalInterventionTimeMinutes" bson:"totalInterventionTimeMinutes"`
	InterventionRate         int            `json:"interventionRate" bson:"interventionRate"`
	SnoringRate              int            `json:"snoringRate" bson:"snoringRate"`
	SleepQuality             int            `json:"sleepQuality" bson:"sleepQuality"`
	Hourly                   []HourlyBucket `json:"hourlyData" bson:"hourlyData"`
	QuietMinutes             int            `json:"quietTime" bson:"quietTime"`
	LightMinutes             int            `json:"lightTime" bson:"lightTime"`
	MediumMinutes            int            `json:"mediumTime" bson:"mediumTime"`
	LoudMinutes              int            `json:"loudTime" bson:"loudTime"`
	EpicMinutes              int            `json:"epicTime" bson:"epicTime"`
}

// Normalize converts raw episodes to internal units. Episodes with an
// unparseable begin timestamp are dropped; the count of dropped records
// is returned so callers can log it.
func Normalize(events []defs.SnoreEvent, loc *time.Location) ([]NormalizedEvent, int) {
	if loc == nil {
		loc = time.Local
	}

	nes := make([]NormalizedEvent, 0, len(events))
	dropped := 0
	for i, ev := range events {
		t, err := time.ParseInLocation(TimestampLayout, ev.Begin, loc)
		if err != nil {
			dropped++
			continue
		}

		duration := ev.Duration / 60
		if duration < 0 {
			duration = 0
		}

		nes = append(nes, NormalizedEvent{
			Time:               t,
			DurationMinutes:    duration,
			Intensity:          ev.Intensity,
			InterventionActive: ev.Intervention.Active,
			HourBucket:         t.Format(hourLayout),
			OriginalIndex:      i,
		})
	}
	return nes, dropped
}

// Aggregate folds normalized episodes into a DaySummary. It is a pure
// function; the same input always yields the same output.
func Aggregate(date string, events []NormalizedEvent) DaySummary {
	summary := DaySummary{
		Date:         date,
		SleepQuality: 100,
		Hourly:       []HourlyBucket{},
	}
	if len(events) == 0 {
		return summary
	}

	var intensityMinutes [maxIntensity + 1]int
	for _, ev := range events {
		summary.TotalSnoringMinutes += ev.DurationMinutes
		if ev.InterventionActive {
			summary.TotalInterventionMinutes += ev.DurationMinutes
		}
		if ev.Intensity >= 0 && ev.Intensity <= maxIntensity {
			intensityMinutes[ev.Intensity] += ev.DurationMinutes
		}
	}
	summary.QuietMinutes = intensityMinutes[defs.Quiet]
	summary.LightMinutes = intensityMinutes[defs.Light]
	summary.MediumMinutes = intensityMinutes[defs.Medium]
	summary.LoudMinutes = intensityMinutes[defs.Loud]
	summary.EpicMinutes = intensityMinutes[defs.Epic]

	summary.Hourly = hourlyProfile(events)
	summary.SnoringRate = clampRate(roundRatio(summary.TotalSnoringMinutes, baselineMinutes))
	summary.SleepQuality = clampRate(100 - summary.SnoringRate)
	summary.InterventionRate = effectivenessRate(events)

	return summary
}

// BuildDaySummary runs both stages over a raw event list.
func BuildDaySummary(date string, events []defs.SnoreEvent, loc *time.Location) (DaySummary, int) {
	nes, dropped := Normalize(events, loc)
	return Aggregate(date, nes), dropped
}

// ScaledIntensity maps the 0-4 intensity scale onto 0-100.
func ScaledIntensity(intensity int) int {
	s := intensity * intensityScale
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// hourlyProfile groups episodes by their "HH:mm" bucket. The bucket's
// intensity is the rounded mean scaled intensity over members with an
// in-range intensity; duration and the intervention flag cover every
// member.
func hourlyProfile(events []NormalizedEvent) []HourlyBucket {
	groups := make(map[string][]NormalizedEvent)
	for _, ev := range events {
		groups[ev.HourBucket] = append(groups[ev.HourBucket], ev)
	}

	hours := make([]string, 0, len(groups))
	for hour := range groups {
		hours = append(hours, hour)
	}
	sort.Strings(hours)

	buckets := make([]HourlyBucket, 0, len(hours))
	for _, hour := range hours {
		bucket := HourlyBucket{Hour: hour}

		scaled := make([]float64, 0, len(groups[hour]))
		for _, ev := range groups[hour] {
			bucket.DurationMinutes += ev.DurationMinutes
			if ev.InterventionActive {
				bucket.Intervention = true
			}
			if ev.Intensity >= 0 && ev.Intensity <= maxIntensity {
				scaled = append(scaled, float64(ScaledIntensity(ev.Intensity)))
			}
		}
		if len(scaled) > 0 {
			mean, _ := stats.Mean(scaled)
			bucket.Intensity = int(math.Round(mean))
		}

		buckets = append(buckets, bucket)
	}
	return buckets
}

// effectivenessRate scores interventions by temporal clustering. An
// intervention is effective when no other intervention starts within 30
// minutes of it; chained neighbours are consumed into the anchor's run
// so each episode is evaluated exactly once.
func effectivenessRate(events []NormalizedEvent) int {
	ivs := make([]NormalizedEvent, 0)
	for _, ev := range events {
		if ev.InterventionActive {
			ivs = append(ivs, ev)
		}
	}
	if len(ivs) == 0 {
		return 0
	}

	sort.SliceStable(ivs, func(i, j int) bool {
		if !ivs[i].Time.Equal(ivs[j].Time) {
			return ivs[i].Time.Before(ivs[j].Time)
		}
		return ivs[i].OriginalIndex < ivs[j].OriginalIndex
	})

	processed := make([]bool, len(ivs))
	effective := 0
	for i := range ivs {
		if processed[i] {
			continue
		}
		processed[i] = true

		grouped := false
		for j := i + 1; j < len(ivs); j++ {
			if processed[j] {
				continue
			}
			gap := ivs[j].Time.Sub(ivs[i].Time)
			if gap < 0 {
				gap = -gap
			}
			if gap <= clusterRadius {
				processed[j] = true
				grouped = true
			}
		}
		if !grouped {
			effective++
		}
	}

	return clampRate(roundRatio(effective, len(ivs)))
}

func roundRatio(part, whole int) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func clampRate(rate int) int {
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}
