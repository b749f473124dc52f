package guard

import (
	"context"
	"fmt"
	"time"

	"snoreguard/guard/pkg/mg"
	"snoreguard/guard/pkg/snoreapi"

	"go.uber.org/zap"
)

type FetcherStore interface {
	mg.EventStore
	mg.AHIStore
}

// Fetcher pulls the current day's episodes and AHI record from the
// companion API into the store.
type Fetcher struct {
	Source snoreapi.Source
	Store  FetcherStore

	Logger   *zap.Logger
	Location *time.Location
}

func (f *Fetcher) FetchAndLoad() error {
	ctx := context.Background()
	day := time.Now().In(f.Location)

	events, err := f.Source.Events(ctx, day)
	if err != nil {
		return fmt.Errorf("unable to fetch events: %w", err)
	}

	for _, ev := range events {
		if ev.Time.IsZero() {
			f.Logger.Debug("skipping episode without parseable timestamp", zap.String("id", ev.ID))
			continue
		}
		ev := ev
		if _, err := f.Store.WriteEvent(ctx, &ev); err != nil {
			return fmt.Errorf("unable to write event to store: %w", err)
		}
	}

	reading, err := f.Source.AHI(ctx, day)
	if err != nil {
		f.Logger.Debug("unable to fetch ahi", zap.Error(err))
		return nil
	}
	if reading != nil {
		if _, err := f.Store.WriteAHI(ctx, reading); err != nil {
			return fmt.Errorf("unable to write ahi to store: %w", err)
		}
	}

	return nil
}
