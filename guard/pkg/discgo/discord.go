package discgo

import (
	"context"
	"fmt"
	"time"

	"snoreguard/guard/defs"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"go.uber.org/zap"
)

const (
	TimeFormat  = "2006-01-02 03:04 PM"
	mainChannel = "snoreguard"
	batchLimit  = 100
)

type Discord struct {
	Session  *session.Session
	Logger   *zap.Logger
	Location *time.Location

	gid      discord.GuildID
	mid      uint64 // Main message ID.
	mainCh   string
	channels map[string]discord.ChannelID
}

type Display interface {
	Messager
	Interactioner
}

type Messager interface {
	SendMessage(data defs.MessageData, chName string) (uint64, error)
	GetMainMessage() (*defs.MessageData, error)
	NewMainMessage(data defs.MessageData) error
	UpdateMainMessage(data defs.MessageData) error
}

type Interactioner interface {
	RespondInteraction(id discord.InteractionID, token string, resp api.InteractionResponse) error
	DeleteInteractionResponse(appID discord.AppID, token string) error
}

// CommandFunc handles one slash command interaction.
type CommandFunc func(e defs.EventInfo, data defs.CommandInteraction)

func New(token, guildID string, logger *zap.Logger, loc *time.Location) (*Discord, error) {
	ses := session.NewWithIntents("Bot "+token, gateway.IntentGuilds)
	ses.AddIntents(gateway.IntentGuildMessages)

	if err := ses.Open(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to open session: %w", err)
	}

	sf, err := discord.ParseSnowflake(guildID)
	if err != nil {
		return nil, err
	}

	return &Discord{
		Session:  ses,
		Logger:   logger,
		Location: loc,
		gid:      discord.GuildID(sf),
		mainCh:   mainChannel,
	}, nil
}

// Setup replaces the guild's commands with cmds, ensures the requested
// channels exist, and wires handler to incoming command interactions.
func (d *Discord) Setup(cmds []api.CreateCommandData, channels []string, handler CommandFunc) error {
	app, err := d.Session.CurrentApplication()
	if err != nil {
		return fmt.Errorf("unable to get current application: %w", err)
	}

	commands, err := d.Session.Commands(app.ID)
	if err != nil {
		return fmt.Errorf("unable to fetch commands: %w", err)
	}

	// Delete old commands.
	for _, command := range commands {
		d.Session.DeleteCommand(app.ID, command.ID)
		d.Logger.Info("deleted command",
			zap.Any("command id", command.ID),
			zap.String("command name", command.Name),
		)
	}

	// Create commands.
	for _, cmd := range cmds {
		if _, err = d.Session.CreateGuildCommand(app.ID, d.gid, cmd); err != nil {
			return fmt.Errorf("unable to create guild commands: %w", err)
		}
	}

	if handler != nil {
		d.Session.AddHandler(func(e *gateway.InteractionCreateEvent) {
			ci, ok := e.Data.(*discord.CommandInteraction)
			if !ok {
				return
			}
			handler(
				defs.EventInfo{ID: e.ID, AppID: e.AppID, Token: e.Token},
				unmarshalInteraction(ci),
			)
		})
	}

	d.channels = make(map[string]discord.ChannelID)

	// Populate existing channels.
	existChannels, err := d.Session.Channels(d.gid)
	if err != nil {
		return fmt.Errorf("unable to get channels: %w", err)
	}
	for _, ch := range existChannels {
		d.channels[ch.Name] = ch.ID
	}

	// Ensure main channel is created.
	channels = append(channels, d.mainCh)
	for _, chName := range channels {
		if _, ok := d.channels[chName]; !ok {
			d.Logger.Debug("creating channel", zap.String("channel name", chName))
			ch, err := d.Session.CreateChannel(d.gid, api.CreateChannelData{
				Name: chName,
				Type: discord.GuildText,
			})
			if err != nil {
				return fmt.Errorf("unable to create channel %s: %w", chName, err)
			}
			d.channels[chName] = ch.ID
		}
	}

	d.Logger.Debug("discord setup complete")
	return nil
}

func (d *Discord) SendMessage(data defs.MessageData, chName string) (uint64, error) {
	msgData := marshalSendData(data)
	msg, err := d.Session.SendMessageComplex(d.channels[chName], msgData)
	if err != nil {
		return 0, err
	}
	d.Logger.Debug("sent message", zap.String("channel name", chName))
	return uint64(msg.ID), nil
}

func (d *Discord) GetMainMessage() (*defs.MessageData, error) {
	discordMsg, err := d.Session.Message(d.channels[d.mainCh], discord.MessageID(d.mid))
	if err != nil {
		return nil, err
	}
	md := unmarshalMessage(*discordMsg)
	return &md, nil
}

func (d *Discord) NewMainMessage(data defs.MessageData) error {
	err := d.deleteMessages(d.channels[d.mainCh], 0)
	if err != nil {
		return err
	}

	messageID, err := d.SendMessage(data, d.mainCh)
	if err != nil {
		return err
	}
	d.mid = messageID

	return nil
}

func (d *Discord) UpdateMainMessage(data defs.MessageData) error {
	msg, err := d.GetMainMessage()
	if err != nil || msg == nil {
		return d.NewMainMessage(data)
	}

	md := marshalSendData(data)
	ed := api.EditMessageData{
		Content: option.NewNullableString(md.Content),
		Embeds:  &md.Embeds,
	}

	_, err = d.Session.EditMessageComplex(d.channels[d.mainCh], discord.MessageID(d.mid), ed)
	return err
}

func (d *Discord) deleteMessages(chid discord.ChannelID, exclude discord.MessageID) error {
	for {
		msgs, err := d.Session.Messages(chid, batchLimit)
		if err != nil {
			return fmt.Errorf("unable to get messages: %w", err)
		}

		for _, msg := range msgs {
			if msg.ID == exclude {
				continue
			}
			if err = d.Session.DeleteMessage(chid, msg.ID, api.AuditLogReason("clearing")); err != nil {
				return fmt.Errorf("unable to delete message: %w", err)
			}
		}

		if len(msgs) == 0 || len(msgs) == 1 && msgs[0].ID == exclude {
			break
		}
	}

	return nil
}

func (d *Discord) RespondInteraction(id discord.InteractionID, token string, resp api.InteractionResponse) error {
	return d.Session.RespondInteraction(id, token, resp)
}

func (d *Discord) DeleteInteractionResponse(appID discord.AppID, token string) error {
	return d.Session.DeleteInteractionResponse(appID, token)
}
