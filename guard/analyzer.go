package guard

import (
	"context"
	"fmt"
	"time"

	"snoreguard/guard/defs"
	"snoreguard/guard/pkg/discgo"
	"snoreguard/guard/pkg/mg"
	"snoreguard/guard/pkg/report"
	"snoreguard/guard/pkg/snoreapi"

	"go.uber.org/zap"
)

const (
	SevereSnoringLabel = "Severe Snoring"
	HighAHILabel       = "High AHI"

	alertCooldown = 1 * time.Hour
)

type AnalyzerStore interface {
	mg.EventStore
	mg.AHIStore
	mg.AlertStore
}

// Analyzer watches the current day's summary and raises an alert when
// the snoring rate or the AHI crosses its configured threshold, at most
// once per cooldown window.
type Analyzer struct {
	Messager discgo.Messager
	Store    AnalyzerStore

	Logger       *zap.Logger
	Location     *time.Location
	AlertsConfig defs.AlertsConfig
}

func (an *Analyzer) AnalyzeDay() error {
	ctx := context.Background()
	now := time.Now().In(an.Location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, an.Location)

	events, err := an.Store.ReadEvents(ctx, start, now)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	dateLabel := start.Format(snoreapi.DateLayout)
	summary, dropped := report.BuildDaySummary(dateLabel, events, an.Location)
	if dropped > 0 {
		an.Logger.Debug("dropped malformed episodes",
			zap.String("date", dateLabel),
			zap.Int("dropped", dropped),
		)
	}

	alerts, _ := an.Store.ReadAlerts(ctx, now.Add(-alertCooldown), now)
	snoreAlert, ahiAlert := true, true
	for _, alert := range alerts {
		switch alert.Label {
		case SevereSnoringLabel:
			snoreAlert = false
		case HighAHILabel:
			ahiAlert = false
		}
	}

	if an.AlertsConfig.SnoringRate > 0 &&
		summary.SnoringRate >= an.AlertsConfig.SnoringRate && snoreAlert {
		return an.genAndSendAlert(
			SevereSnoringLabel,
			fmt.Sprintf("snoring rate: %d ≥ %d", summary.SnoringRate, an.AlertsConfig.SnoringRate),
		)
	}

	reading, err := an.Store.ReadAHI(ctx, dateLabel)
	if err != nil {
		return err
	}
	if reading != nil && an.AlertsConfig.AHI > 0 &&
		reading.AHI >= an.AlertsConfig.AHI && ahiAlert {
		return an.genAndSendAlert(
			HighAHILabel,
			fmt.Sprintf("ahi: %.1f ≥ %.1f (%s)", reading.AHI, an.AlertsConfig.AHI, reading.Severity),
		)
	}

	return nil
}

func (an *Analyzer) genAndSendAlert(label, reason string) error {
	_, err := an.Store.WriteAlert(context.Background(), &defs.Alert{
		Time:   time.Now(),
		Label:  label,
		Reason: reason,
	})
	if err != nil {
		return err
	}

	_, err = an.Messager.SendMessage(defs.MessageData{
		Content: "@everyone",
		Embeds: []defs.EmbedData{
			{
				Fields: []defs.EmbedField{
					{
						Name:  "⚠️ " + label,
						Value: reason,
					},
				},
			},
		},
		MentionEveryone: true,
	}, defs.AlertsChannel)
	if err != nil {
		return err
	}

	return nil
}
