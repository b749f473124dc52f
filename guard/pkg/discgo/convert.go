package discgo

import (
	"strings"

	"snoreguard/guard/defs"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
)

// marshalSendData transforms data of type defs.MessageData to
// api.SendMessageData which arikawa expects.
func marshalSendData(data defs.MessageData) api.SendMessageData {
	embeds := make([]discord.Embed, 0)
	for _, embed := range data.Embeds {
		fields := make([]discord.EmbedField, 0)

		for _, field := range embed.Fields {
			dField := discord.EmbedField{
				Name:   field.Name,
				Value:  field.Value,
				Inline: field.Inline,
			}
			fields = append(fields, dField)
		}

		embeds = append(embeds, discord.Embed{
			Title:       embed.Title,
			Description: embed.Description,
			Fields:      fields,
		})
	}

	md := api.SendMessageData{
		Content: data.Content,
		Embeds:  embeds,
	}

	if data.MentionEveryone {
		md.AllowedMentions = &api.AllowedMentions{
			Parse: []api.AllowedMentionType{api.AllowEveryoneMention},
		}
	}

	return md
}

// unmarshalMessage transforms data of type discord.Message to
// defs.MessageData.
func unmarshalMessage(data discord.Message) defs.MessageData {
	embeds := make([]defs.EmbedData, 0)
	for _, embed := range data.Embeds {
		fields := make([]defs.EmbedField, 0)

		for _, field := range embed.Fields {
			dField := defs.EmbedField{
				Name:   field.Name,
				Value:  field.Value,
				Inline: field.Inline,
			}
			fields = append(fields, dField)
		}

		embeds = append(embeds, defs.EmbedData{
			Title:       embed.Title,
			Description: embed.Description,
			Fields:      fields,
		})
	}

	return defs.MessageData{
		Content: data.Content,
		Embeds:  embeds,
	}
}

// unmarshalInteraction flattens a command interaction into the
// defs shape the commander works with; option values arrive as raw
// JSON, so string values lose their quotes here.
func unmarshalInteraction(ci *discord.CommandInteraction) defs.CommandInteraction {
	opts := make([]defs.CommandOption, 0, len(ci.Options))
	for _, opt := range ci.Options {
		opts = append(opts, defs.CommandOption{
			Name:  opt.Name,
			Value: strings.Trim(string(opt.Value), `"`),
		})
	}
	return defs.CommandInteraction{
		Name:    ci.Name,
		Options: opts,
	}
}
