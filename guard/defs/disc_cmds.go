package defs

import (
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
)

const (
	GenReportCmd = "report"
	GetAHICmd    = "ahi"
)

// Register commands under here to get deployed.
var Commands []api.CreateCommandData = []api.CreateCommandData{
	genReportCmdData,
	getAHICmdData,
}

var genReportCmdData api.CreateCommandData = api.CreateCommandData{
	Name:        GenReportCmd,
	Description: "Generate the snoring report for a given night.",
	Options: discord.CommandOptions{
		&discord.IntegerOption{
			OptionName:  "offset",
			Description: "Days before today.", // E.g. 1 = last night.
			Min:         option.ZeroInt,
			Required:    true,
		},
	},
}

var getAHICmdData api.CreateCommandData = api.CreateCommandData{
	Name:        GetAHICmd,
	Description: "Show the apnea-hypopnea index for a given night.",
	Options: discord.CommandOptions{
		&discord.IntegerOption{
			OptionName:  "offset",
			Description: "Days before today.",
			Min:         option.ZeroInt,
			Required:    true,
		},
	},
}
