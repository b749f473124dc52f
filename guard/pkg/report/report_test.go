package report

import (
	"fmt"
	"testing"
	"time"

	"snoreguard/guard/defs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ReportTestSuite struct {
	suite.Suite
	base time.Time
}

func TestReportTestSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}

func (suite *ReportTestSuite) SetupSuite() {
	suite.base = time.Date(2024, time.March, 11, 22, 0, 0, 0, time.UTC)
}

func (suite *ReportTestSuite) TestNormalize() {
	events := []defs.SnoreEvent{
		genEvent(suite.base, 150, 2, false),
		genEvent(suite.base.Add(45*time.Minute), 59, 4, true),
	}

	nes, dropped := Normalize(events, time.UTC)
	assert.Zero(suite.T(), dropped)
	assert.Len(suite.T(), nes, 2)

	assert.Equal(suite.T(), 2, nes[0].DurationMinutes, "150s floors to 2m")
	assert.Equal(suite.T(), "22:00", nes[0].HourBucket)
	assert.Equal(suite.T(), 0, nes[0].OriginalIndex)

	assert.Equal(suite.T(), 0, nes[1].DurationMinutes, "59s floors to 0m")
	assert.Equal(suite.T(), "22:45", nes[1].HourBucket)
	assert.True(suite.T(), nes[1].InterventionActive)
}

func (suite *ReportTestSuite) TestNormalizeNegativeDuration() {
	ev := genEvent(suite.base, -300, 1, false)
	nes, dropped := Normalize([]defs.SnoreEvent{ev}, time.UTC)
	assert.Zero(suite.T(), dropped)
	assert.Equal(suite.T(), 0, nes[0].DurationMinutes, "never negative")
}

func (suite *ReportTestSuite) TestNormalizeDropsUnparseable() {
	bad := genEvent(suite.base, 60, 1, false)
	bad.Begin = "yesterday, around midnight"

	nes, dropped := Normalize([]defs.SnoreEvent{
		genEvent(suite.base, 60, 1, false),
		bad,
		genEvent(suite.base.Add(time.Hour), 60, 2, false),
	}, time.UTC)

	assert.Equal(suite.T(), 1, dropped)
	assert.Len(suite.T(), nes, 2)
}

func (suite *ReportTestSuite) TestEmptyInput() {
	summary := Aggregate("2024-03-11", nil)

	assert.Equal(suite.T(), "2024-03-11", summary.Date)
	assert.Zero(suite.T(), summary.TotalSnoringMinutes)
	assert.Zero(suite.T(), summary.TotalInterventionMinutes)
	assert.Zero(suite.T(), summary.InterventionRate)
	assert.Zero(suite.T(), summary.SnoringRate)
	assert.Equal(suite.T(), 100, summary.SleepQuality)
	assert.Empty(suite.T(), summary.Hourly)
}

func (suite *ReportTestSuite) TestIntensityBucketsRoundTrip() {
	// One episode per intensity, a minute each, one active intervention.
	events := make([]defs.SnoreEvent, 0, 5)
	for i := 0; i <= 4; i++ {
		ev := genEvent(suite.base.Add(time.Duration(i)*2*time.Hour), 60, i, i == 2)
		events = append(events, ev)
	}

	summary, dropped := BuildDaySummary("2024-03-11", events, time.UTC)
	assert.Zero(suite.T(), dropped)

	assert.Equal(suite.T(), 5, summary.TotalSnoringMinutes)
	assert.Equal(suite.T(), 1, summary.TotalInterventionMinutes)
	assert.Equal(suite.T(), 1, summary.QuietMinutes)
	assert.Equal(suite.T(), 1, summary.LightMinutes)
	assert.Equal(suite.T(), 1, summary.MediumMinutes)
	assert.Equal(suite.T(), 1, summary.LoudMinutes)
	assert.Equal(suite.T(), 1, summary.EpicMinutes)
	assert.Equal(suite.T(), 100, summary.InterventionRate, "lone intervention is effective")
}

func (suite *ReportTestSuite) TestUnmappedIntensity() {
	events := []defs.SnoreEvent{
		genEvent(suite.base, 120, 7, false),
		genEvent(suite.base.Add(time.Minute), 120, 4, false),
	}

	summary, _ := BuildDaySummary("2024-03-11", events, time.UTC)

	assert.Equal(suite.T(), 4, summary.TotalSnoringMinutes, "unmapped still counts toward totals")
	sum := summary.QuietMinutes + summary.LightMinutes + summary.MediumMinutes +
		summary.LoudMinutes + summary.EpicMinutes
	assert.Equal(suite.T(), 2, sum, "unmapped excluded from buckets")
}

func (suite *ReportTestSuite) TestHourlyProfile() {
	events := []defs.SnoreEvent{
		genEvent(suite.base, 120, 1, false),               // 22:00
		genEvent(suite.base.Add(20*time.Second), 180, 2, true), // 22:00
		genEvent(suite.base.Add(-time.Hour), 60, 4, false),     // 21:00
	}

	summary, _ := BuildDaySummary("2024-03-11", events, time.UTC)
	assert.Len(suite.T(), summary.Hourly, 2)

	assert.Equal(suite.T(), "21:00", summary.Hourly[0].Hour, "sorted ascending")
	assert.Equal(suite.T(), 100, summary.Hourly[0].Intensity)
	assert.False(suite.T(), summary.Hourly[0].Intervention)

	assert.Equal(suite.T(), "22:00", summary.Hourly[1].Hour)
	assert.Equal(suite.T(), 38, summary.Hourly[1].Intensity, "mean of 25 and 50, rounded half-up")
	assert.Equal(suite.T(), 5, summary.Hourly[1].DurationMinutes)
	assert.True(suite.T(), summary.Hourly[1].Intervention)
}

func (suite *ReportTestSuite) TestHourlyBucketsAreMinuteGranular() {
	events := []defs.SnoreEvent{
		genEvent(suite.base, 60, 1, false),
		genEvent(suite.base.Add(time.Minute), 60, 1, false),
	}
	summary, _ := BuildDaySummary("2024-03-11", events, time.UTC)
	assert.Len(suite.T(), summary.Hourly, 2, "22:00 and 22:01 are distinct buckets")
}

func (suite *ReportTestSuite) TestSnoringRateClamp() {
	events := []defs.SnoreEvent{genEvent(suite.base, 700*60, 3, false)}
	summary, _ := BuildDaySummary("2024-03-11", events, time.UTC)

	assert.Equal(suite.T(), 100, summary.SnoringRate, "700m over a 480m baseline clamps")
	assert.Equal(suite.T(), 0, summary.SleepQuality)
}

func (suite *ReportTestSuite) TestInterventionClusterChain() {
	// T and T+10m merge; T+50m is 40m past the second member, so it
	// stands alone and is the only effective one.
	events := []defs.SnoreEvent{
		genEvent(suite.base, 60, 3, true),
		genEvent(suite.base.Add(10*time.Minute), 60, 3, true),
		genEvent(suite.base.Add(50*time.Minute), 60, 3, true),
	}

	summary, _ := BuildDaySummary("2024-03-11", events, time.UTC)
	assert.Equal(suite.T(), 33, summary.InterventionRate, "round(1/3*100)")
}

func (suite *ReportTestSuite) TestConsumedNeighborNeverAnchors() {
	// 0m, 25m, 40m: the first anchor consumes 25m but not 40m. 40m then
	// anchors on its own and only unconsumed episodes count against it,
	// so it scores effective despite sitting 15m from a consumed one.
	events := []defs.SnoreEvent{
		genEvent(suite.base, 60, 3, true),
		genEvent(suite.base.Add(25*time.Minute), 60, 3, true),
		genEvent(suite.base.Add(40*time.Minute), 60, 3, true),
	}

	summary, _ := BuildDaySummary("2024-03-11", events, time.UTC)
	assert.Equal(suite.T(), 33, summary.InterventionRate, "round(1/3*100)")
}

func (suite *ReportTestSuite) TestInterventionOrderIndependence() {
	events := []defs.SnoreEvent{
		genEvent(suite.base.Add(50*time.Minute), 60, 3, true),
		genEvent(suite.base, 60, 3, true),
		genEvent(suite.base.Add(10*time.Minute), 60, 3, true),
	}

	summary, _ := BuildDaySummary("2024-03-11", events, time.UTC)
	assert.Equal(suite.T(), 33, summary.InterventionRate, "clustering orders by timestamp, not input order")
}

func (suite *ReportTestSuite) TestMalformedRecordResilience() {
	valid := []defs.SnoreEvent{
		genEvent(suite.base, 300, 1, false),
		genEvent(suite.base.Add(time.Hour), 600, 2, true),
		genEvent(suite.base.Add(2*time.Hour), 900, 3, false),
	}
	bad := genEvent(suite.base.Add(30*time.Minute), 60, 4, true)
	bad.Begin = "not-a-timestamp"

	want, _ := BuildDaySummary("2024-03-11", valid, time.UTC)
	got, dropped := BuildDaySummary("2024-03-11", append(append([]defs.SnoreEvent{}, valid...), bad), time.UTC)

	assert.Equal(suite.T(), 1, dropped)
	assert.Equal(suite.T(), want, got, "dropped record leaves no trace")
}

func (suite *ReportTestSuite) TestIdempotence() {
	events := genNight(suite.base, 40)
	first, _ := BuildDaySummary("2024-03-11", events, time.UTC)
	second, _ := BuildDaySummary("2024-03-11", events, time.UTC)
	assert.Equal(suite.T(), first, second)
}

func (suite *ReportTestSuite) TestRateBounds() {
	events := genNight(suite.base, 75)
	summary, _ := BuildDaySummary("2024-03-11", events, time.UTC)

	assert.GreaterOrEqual(suite.T(), summary.TotalSnoringMinutes, summary.TotalInterventionMinutes)
	for _, rate := range []int{summary.SnoringRate, summary.SleepQuality, summary.InterventionRate} {
		assert.GreaterOrEqual(suite.T(), rate, 0)
		assert.LessOrEqual(suite.T(), rate, 100)
	}
	for i, bucket := range summary.Hourly {
		assert.GreaterOrEqual(suite.T(), bucket.Intensity, 0)
		assert.LessOrEqual(suite.T(), bucket.Intensity, 100)
		if i > 0 {
			assert.Less(suite.T(), summary.Hourly[i-1].Hour, bucket.Hour, "strictly ascending, no duplicates")
		}
	}
}

func genEvent(t time.Time, durationSeconds, intensity int, intervention bool) defs.SnoreEvent {
	return defs.SnoreEvent{
		ID:        fmt.Sprintf("ev-%d", t.Unix()),
		DeviceID:  "dev-1",
		Begin:     t.Format(TimestampLayout),
		End:       t.Add(time.Duration(durationSeconds) * time.Second).Format(TimestampLayout),
		Duration:  durationSeconds,
		Intensity: intensity,
		Intervention: defs.Intervention{
			Active:    intervention,
			StartTime: t.Format(TimestampLayout),
			EndTime:   t.Add(time.Minute).Format(TimestampLayout),
		},
	}
}

func genNight(base time.Time, size int) []defs.SnoreEvent {
	events := make([]defs.SnoreEvent, 0, size)
	for i := 0; i < size; i++ {
		events = append(events, genEvent(
			base.Add(time.Duration(i*7)*time.Minute),
			60+i*13,
			i%6, // Includes an out-of-range intensity.
			i%4 == 0,
		))
	}
	return events
}
