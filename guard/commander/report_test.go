package commander

import (
	"context"
	"fmt"
	"testing"
	"time"

	"snoreguard/guard/defs"
	"snoreguard/guard/mocks"
	"snoreguard/guard/pkg/report"
	"snoreguard/guard/pkg/snoreapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type CommanderSuite struct {
	suite.Suite
	store *mocks.Store
	msger *mocks.Messager
}

func TestCommanderSuite(t *testing.T) {
	suite.Run(t, new(CommanderSuite))
}

func (suite *CommanderSuite) SetupTest() {
	suite.store = mocks.NewStore()
	suite.msger = &mocks.Messager{Channels: make(map[string][]defs.MessageData)}
}

func (suite *CommanderSuite) TestGenReport() {
	now := time.Now().UTC().Add(-time.Second)
	for i := 0; i < 3; i++ {
		t := now.Add(time.Duration(-i) * time.Second)
		_, err := suite.store.WriteEvent(context.Background(), &defs.SnoreEvent{
			ID:        fmt.Sprintf("ev-%d", i),
			Begin:     t.Format(report.TimestampLayout),
			Duration:  120,
			Intensity: i,
			Time:      t,
		})
		assert.NoError(suite.T(), err)
	}

	data := defs.CommandInteraction{
		Name:    defs.GenReportCmd,
		Options: []defs.CommandOption{{Name: "offset", Value: "0"}},
	}

	err := handleGenReport(suite.store, suite.msger, zap.NewExample(), time.UTC, data)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), suite.msger.Channels[defs.ReportsChannel], 1)

	msg := suite.msger.Channels[defs.ReportsChannel][0]
	assert.Len(suite.T(), msg.Embeds, 1)
	assert.Equal(suite.T(), "Snoring", msg.Embeds[0].Fields[0].Name)
	assert.Equal(suite.T(), "6m", msg.Embeds[0].Fields[0].Value)
}

func (suite *CommanderSuite) TestGenReportEmptyDay() {
	data := defs.CommandInteraction{
		Name:    defs.GenReportCmd,
		Options: []defs.CommandOption{{Name: "offset", Value: "3"}},
	}

	err := handleGenReport(suite.store, suite.msger, zap.NewExample(), time.UTC, data)
	assert.NoError(suite.T(), err)

	msg := suite.msger.Channels[defs.ReportsChannel][0]
	assert.Equal(suite.T(), "0m", msg.Embeds[0].Fields[0].Value)
	assert.Equal(suite.T(), "100", msg.Embeds[0].Fields[4].Value, "empty day keeps full sleep quality")
}

func (suite *CommanderSuite) TestGenReportBadOffset() {
	data := defs.CommandInteraction{
		Name:    defs.GenReportCmd,
		Options: []defs.CommandOption{{Name: "offset", Value: "soon"}},
	}

	err := handleGenReport(suite.store, suite.msger, zap.NewExample(), time.UTC, data)
	assert.Error(suite.T(), err)
}

func (suite *CommanderSuite) TestGetAHI() {
	date := time.Now().UTC().Format(snoreapi.DateLayout)
	_, err := suite.store.WriteAHI(context.Background(), &defs.AHIReading{
		Date: date, AHI: 6.5, ApneaEvents: 9, HypopneaEvents: 20, SleepHours: 6.2, Severity: "mild",
	})
	assert.NoError(suite.T(), err)

	data := defs.CommandInteraction{
		Name:    defs.GetAHICmd,
		Options: []defs.CommandOption{{Name: "offset", Value: "0"}},
	}

	err = handleGetAHI(suite.store, suite.msger, time.UTC, data)
	assert.NoError(suite.T(), err)

	msg := suite.msger.Channels[defs.ReportsChannel][0]
	assert.Equal(suite.T(), "6.5", msg.Embeds[0].Fields[0].Value)
	assert.Equal(suite.T(), "mild", msg.Embeds[0].Fields[1].Value)
}

func (suite *CommanderSuite) TestGetAHIMissing() {
	data := defs.CommandInteraction{
		Name:    defs.GetAHICmd,
		Options: []defs.CommandOption{{Name: "offset", Value: "1"}},
	}

	err := handleGetAHI(suite.store, suite.msger, time.UTC, data)
	assert.NoError(suite.T(), err)

	msg := suite.msger.Channels[defs.ReportsChannel][0]
	assert.Contains(suite.T(), msg.Content, "no AHI data")
}
