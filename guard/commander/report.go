package commander

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"snoreguard/guard/defs"
	"snoreguard/guard/pkg/desc"
	"snoreguard/guard/pkg/report"
	"snoreguard/guard/pkg/snoreapi"

	"go.uber.org/zap"
)

func handleGenReport(cs CommanderStore, cd CommanderDisplay,
	logger *zap.Logger, loc *time.Location, data defs.CommandInteraction) error {
	day, err := dayFromOffset(data, loc)
	if err != nil {
		return err
	}

	start := day
	end := day.Add(24*time.Hour - time.Minute)

	events, err := cs.ReadEvents(context.Background(), start, end)
	if err != nil {
		return err
	}

	dateLabel := day.Format(snoreapi.DateLayout)
	summary, dropped := report.BuildDaySummary(dateLabel, events, loc)
	if dropped > 0 {
		logger.Debug("dropped malformed episodes from report",
			zap.String("date", dateLabel),
			zap.Int("dropped", dropped),
		)
	}

	msgData := defs.MessageData{
		Embeds: []defs.EmbedData{
			{
				Title:       fmt.Sprintf("Snore report %s", day.Format(monthDayFormat)),
				Description: desc.HourlyProfile(summary.Hourly),
				Fields:      summaryFields(summary),
			},
		},
	}

	_, err = cd.SendMessage(msgData, defs.ReportsChannel)
	return err
}

func summaryFields(s report.DaySummary) []defs.EmbedField {
	return []defs.EmbedField{
		{Name: "Snoring", Value: fmt.Sprintf("%dm", s.TotalSnoringMinutes), Inline: true},
		{Name: "Intervened", Value: fmt.Sprintf("%dm", s.TotalInterventionMinutes), Inline: true},
		{Name: "Effective", Value: fmt.Sprintf("%d%%", s.InterventionRate), Inline: true},
		{Name: "Snoring Rate", Value: strconv.Itoa(s.SnoringRate), Inline: true},
		{Name: "Sleep Quality", Value: strconv.Itoa(s.SleepQuality), Inline: true},
		defs.EmptyEmbed(),
		{Name: "Quiet", Value: fmt.Sprintf("%dm", s.QuietMinutes), Inline: true},
		{Name: "Light", Value: fmt.Sprintf("%dm", s.LightMinutes), Inline: true},
		{Name: "Medium", Value: fmt.Sprintf("%dm", s.MediumMinutes), Inline: true},
		{Name: "Loud", Value: fmt.Sprintf("%dm", s.LoudMinutes), Inline: true},
		{Name: "Epic", Value: fmt.Sprintf("%dm", s.EpicMinutes), Inline: true},
		defs.EmptyEmbed(),
	}
}

func handleGetAHI(cs CommanderStore, cd CommanderDisplay,
	loc *time.Location, data defs.CommandInteraction) error {
	day, err := dayFromOffset(data, loc)
	if err != nil {
		return err
	}
	dateLabel := day.Format(snoreapi.DateLayout)

	reading, err := cs.ReadAHI(context.Background(), dateLabel)
	if err != nil {
		return err
	}

	if reading == nil {
		_, err = cd.SendMessage(defs.MessageData{
			Content: fmt.Sprintf("no AHI data for %s", dateLabel),
		}, defs.ReportsChannel)
		return err
	}

	msgData := defs.MessageData{
		Embeds: []defs.EmbedData{
			{
				Title: fmt.Sprintf("AHI %s", day.Format(monthDayFormat)),
				Fields: []defs.EmbedField{
					{Name: "AHI", Value: strconv.FormatFloat(reading.AHI, 'f', 1, 64), Inline: true},
					{Name: "Severity", Value: reading.Severity, Inline: true},
					defs.EmptyEmbed(),
					{Name: "Apnea", Value: strconv.Itoa(reading.ApneaEvents), Inline: true},
					{Name: "Hypopnea", Value: strconv.Itoa(reading.HypopneaEvents), Inline: true},
					{Name: "Slept", Value: fmt.Sprintf("%.1fh", reading.SleepHours), Inline: true},
				},
			},
		},
	}

	_, err = cd.SendMessage(msgData, defs.ReportsChannel)
	return err
}
