package defs

import (
	"github.com/diamondburned/arikawa/v3/discord"
)

// MessageData is the transport-agnostic message shape the rest of the
// application builds; the discgo package converts it to what arikawa
// expects.
type MessageData struct {
	Content         string
	Embeds          []EmbedData
	MentionEveryone bool
}

type EmbedData struct {
	Title       string
	Description string
	Fields      []EmbedField
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// EmptyEmbed pads inline field rows so they align in threes.
func EmptyEmbed() EmbedField {
	return EmbedField{Name: "​", Value: "​", Inline: true}
}

type EventInfo struct {
	ID    discord.InteractionID
	AppID discord.AppID
	Token string
}

type CommandInteraction struct {
	Name    string
	Options []CommandOption
}

type CommandOption struct {
	Name  string
	Value string
}
