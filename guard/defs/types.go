package defs

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TimePoint interface {
	GetTime() time.Time
}

// SnoreEvent is one snoring episode as served by the companion device's
// cloud API. Time is derived from Begin at fetch time; the wire format
// only carries the string timestamps.
type SnoreEvent struct {
	ID           string       `json:"id" bson:"id"`
	DeviceID     string       `json:"deviceId" bson:"deviceId"`
	Begin        string       `json:"snoringBegintime" bson:"snoringBegintime"`
	End          string       `json:"snoringEndtime" bson:"snoringEndtime"`
	Duration     int          `json:"duration" bson:"duration"` // Seconds.
	Intensity    int          `json:"intensity" bson:"intensity"`
	Intervention Intervention `json:"intervention" bson:"intervention"`
	Time         time.Time    `json:"-" bson:"time"`
}

func (e *SnoreEvent) GetTime() time.Time {
	return e.Time
}

type Intervention struct {
	Active    bool   `json:"active" bson:"active"`
	StartTime string `json:"startTime" bson:"startTime"`
	EndTime   string `json:"endTime" bson:"endTime"`
}

type Intensity int

const (
	Quiet Intensity = iota
	Light
	Medium
	Loud
	Epic
)

func (i Intensity) String() string {
	return [...]string{"quiet", "light", "medium", "loud", "epic"}[i]
}

// AHIReading is the nightly apnea-hypopnea index record, one per date.
type AHIReading struct {
	Date           string  `json:"date" bson:"date"`
	AHI            float64 `json:"ahi" bson:"ahi"`
	ApneaEvents    int     `json:"apnea_events" bson:"apneaEvents"`
	HypopneaEvents int     `json:"hypopnea_events" bson:"hypopneaEvents"`
	SleepHours     float64 `json:"sleep_hours" bson:"sleepHours"`
	Severity       string  `json:"severity" bson:"severity"`
}

type Alert struct {
	ID     *primitive.ObjectID `bson:"_id,omitempty"`
	Time   time.Time           `bson:"time"`
	Label  string              `bson:"label"`
	Reason string              `bson:"reason"`
}

func (al *Alert) GetTime() time.Time {
	return al.Time
}
