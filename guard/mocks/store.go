package mocks

import (
	"context"
	"time"

	"snoreguard/guard/defs"

	"go.mongodb.org/mongo-driver/mongo"
)

// Store is an in-memory stand-in for the mongo store, good enough for
// exercising the analyzer and commander without a running database.
type Store struct {
	Events []defs.SnoreEvent
	AHI    map[string]defs.AHIReading
	Alerts []defs.Alert
}

func NewStore() *Store {
	return &Store{AHI: make(map[string]defs.AHIReading)}
}

func (s *Store) WriteEvent(_ context.Context, ev *defs.SnoreEvent) (*mongo.UpdateResult, error) {
	for _, existing := range s.Events {
		if existing.ID == ev.ID {
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		}
	}
	s.Events = append(s.Events, *ev)
	return &mongo.UpdateResult{UpsertedCount: 1}, nil
}

func (s *Store) ReadEvents(_ context.Context, start, end time.Time) ([]defs.SnoreEvent, error) {
	evs := make([]defs.SnoreEvent, 0)
	for _, ev := range s.Events {
		if !ev.Time.Before(start) && !ev.Time.After(end) {
			evs = append(evs, ev)
		}
	}
	return evs, nil
}

func (s *Store) WriteAHI(_ context.Context, r *defs.AHIReading) (*mongo.UpdateResult, error) {
	s.AHI[r.Date] = *r
	return &mongo.UpdateResult{UpsertedCount: 1}, nil
}

func (s *Store) ReadAHI(_ context.Context, date string) (*defs.AHIReading, error) {
	if r, ok := s.AHI[date]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *Store) WriteAlert(_ context.Context, al *defs.Alert) (*mongo.UpdateResult, error) {
	s.Alerts = append(s.Alerts, *al)
	return &mongo.UpdateResult{UpsertedCount: 1}, nil
}

func (s *Store) ReadAlerts(_ context.Context, start, end time.Time) ([]defs.Alert, error) {
	alerts := make([]defs.Alert, 0)
	for _, al := range s.Alerts {
		if !al.Time.Before(start) && !al.Time.After(end) {
			alerts = append(alerts, al)
		}
	}
	return alerts, nil
}
