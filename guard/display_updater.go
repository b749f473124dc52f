package guard

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"snoreguard/guard/defs"
	"snoreguard/guard/pkg/desc"
	"snoreguard/guard/pkg/discgo"
	"snoreguard/guard/pkg/mg"
	"snoreguard/guard/pkg/report"
	"snoreguard/guard/pkg/snoreapi"

	"go.uber.org/zap"
)

// DisplayUpdater keeps the main channel message showing the current
// day's summary.
type DisplayUpdater struct {
	Display discgo.Messager
	Store   mg.EventStore

	Logger   *zap.Logger
	Location *time.Location
}

func (u DisplayUpdater) Update() error {
	now := time.Now().In(u.Location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, u.Location)

	events, err := u.Store.ReadEvents(context.Background(), start, now)
	if err != nil {
		return fmt.Errorf("unable to read events from store: %w", err)
	}

	if len(events) == 0 {
		return fmt.Errorf("no snore events found")
	}

	dateLabel := start.Format(snoreapi.DateLayout)
	summary, _ := report.BuildDaySummary(dateLabel, events, u.Location)

	embed := defs.EmbedData{
		Title:       dateLabel,
		Description: desc.HourlyProfile(summary.Hourly),
		Fields: []defs.EmbedField{
			{Name: "Snoring", Value: fmt.Sprintf("%dm", summary.TotalSnoringMinutes), Inline: true},
			{Name: "Quality", Value: strconv.Itoa(summary.SleepQuality), Inline: true},
			{Name: "Effective", Value: fmt.Sprintf("%d%%", summary.InterventionRate), Inline: true},
		},
	}

	prevMsg, err := u.Display.GetMainMessage()
	if err == nil && prevMsg != nil && len(prevMsg.Embeds) > 0 &&
		reflect.DeepEqual(prevMsg.Embeds[0], embed) {
		u.Logger.Debug("skipping display update, up to date", zap.String("date", dateLabel))
		return nil
	}

	return u.Display.UpdateMainMessage(defs.MessageData{Embeds: []defs.EmbedData{embed}})
}
