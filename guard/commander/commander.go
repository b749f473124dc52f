package commander

import (
	"fmt"
	"strconv"
	"time"

	"snoreguard/guard/defs"
	"snoreguard/guard/pkg/discgo"
	"snoreguard/guard/pkg/mg"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"go.uber.org/zap"
)

const monthDayFormat = "01/02"

type CommanderStore interface {
	mg.EventStore
	mg.AHIStore
}

type CommanderDisplay interface {
	discgo.Messager
	discgo.Interactioner
}

type CommandHandler struct {
	Display CommanderDisplay
	Store   CommanderStore

	Logger   *zap.Logger
	Location *time.Location
}

func (ch *CommandHandler) CreateHandler() discgo.CommandFunc {
	return func(e defs.EventInfo, data defs.CommandInteraction) {
		if err := ch.handleCommand(data); err != nil {
			ch.Logger.Debug("unable to handle command",
				zap.String("command", data.Name),
				zap.Error(err),
			)
		}

		resp := api.InteractionResponse{
			Type: api.MessageInteractionWithSource,
			Data: &api.InteractionResponseData{
				Content: option.NewNullableString("received"),
			},
		}

		if err := ch.Display.RespondInteraction(e.ID, e.Token, resp); err != nil {
			ch.Logger.Debug("unable to send interaction callback", zap.Error(err))
			return
		}
		if err := ch.Display.DeleteInteractionResponse(e.AppID, e.Token); err != nil {
			ch.Logger.Debug("unable to delete interaction response", zap.String("token", e.Token), zap.Error(err))
		}
	}
}

func (ch *CommandHandler) handleCommand(data defs.CommandInteraction) error {
	ch.Logger.Debug("received command",
		zap.String("cmd", data.Name),
		zap.Any("options", data.Options),
	)

	switch data.Name {
	case defs.GenReportCmd:
		return handleGenReport(ch.Store, ch.Display, ch.Logger, ch.Location, data)
	case defs.GetAHICmd:
		return handleGetAHI(ch.Store, ch.Display, ch.Location, data)
	default:
		return fmt.Errorf("unknown command: %s", data.Name)
	}
}

// dayFromOffset resolves the "offset" option (days before today) into
// that day's midnight in the configured location.
func dayFromOffset(data defs.CommandInteraction, loc *time.Location) (time.Time, error) {
	offset := 0
	for _, opt := range data.Options {
		if opt.Name == "offset" {
			parsed, err := strconv.Atoi(opt.Value)
			if err != nil {
				return time.Time{}, fmt.Errorf("bad offset %q: %w", opt.Value, err)
			}
			offset = parsed
		}
	}

	day := time.Now().In(loc).AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc), nil
}
