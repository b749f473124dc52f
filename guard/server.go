package guard

import (
	"context"
	"time"

	"snoreguard/guard/commander"
	"snoreguard/guard/defs"
	"snoreguard/guard/pkg/discgo"
	guardhttp "snoreguard/guard/pkg/http"
	"snoreguard/guard/pkg/mg"
	"snoreguard/guard/pkg/rcache"
	"snoreguard/guard/pkg/snoreapi"

	"go.uber.org/zap"
)

type Server struct {
	API     *snoreapi.Client
	Discord *discgo.Discord
	Store   *mg.MongoStore
	Cache   *rcache.Cache
	HTTP    *guardhttp.HttpServer

	Logger   *zap.Logger
	Location *time.Location
}

func New(config defs.Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defs.TimeoutInterval)
	defer cancel()

	var err error

	loc := time.Local
	if config.Timezone != "" {
		loc, err = time.LoadLocation(config.Timezone)
		if err != nil {
			return nil, err
		}
	}

	ms, err := mg.New(ctx, config.Mongo, defs.DefaultDB, config.Logger)
	if err != nil {
		return nil, err
	}

	cache, err := rcache.New(ctx, config.Redis, config.Logger)
	if err != nil {
		return nil, err
	}

	api := snoreapi.New(config.API.BaseURL, config.Logger, loc)

	disc, err := discgo.New(config.Discord.Token, config.Discord.Guild, config.Logger, loc)
	if err != nil {
		return nil, err
	}

	ch := commander.CommandHandler{
		Display:  disc,
		Store:    ms,
		Logger:   config.Logger,
		Location: loc,
	}
	err = disc.Setup(
		defs.Commands,
		[]string{defs.AlertsChannel, defs.ReportsChannel},
		ch.CreateHandler(),
	)
	if err != nil {
		return nil, err
	}

	hs := guardhttp.New(ms, cache, config.Logger, loc)

	config.Logger.Debug("finished server setup")

	return &Server{
		API:      api,
		Discord:  disc,
		Store:    ms,
		Cache:    cache,
		HTTP:     hs,
		Logger:   config.Logger,
		Location: loc,
	}, nil
}

func (s *Server) ExecuteTask(interval time.Duration, task func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for ; true; <-ticker.C {
		task()
	}
}

func (s *Server) FetchUploadEvents() {
	f := Fetcher{Source: s.API, Store: s.Store, Logger: s.Logger, Location: s.Location}
	if err := f.FetchAndLoad(); err != nil {
		s.Logger.Debug("unable to fetch and load", zap.Error(err))
	}
}

func (s *Server) UpdateDisplay() {
	du := DisplayUpdater{Display: s.Discord, Store: s.Store, Logger: s.Logger, Location: s.Location}
	if err := du.Update(); err != nil {
		s.Logger.Debug("unable to update display", zap.Error(err))
	}
}

func (s *Server) AnalyzeDay(alerts defs.AlertsConfig) {
	an := Analyzer{
		Messager:     s.Discord,
		Store:        s.Store,
		Logger:       s.Logger,
		Location:     s.Location,
		AlertsConfig: alerts,
	}
	if err := an.AnalyzeDay(); err != nil {
		s.Logger.Debug("unable to analyze day", zap.Error(err))
	}
}

// Run wires everything up and blocks on the fetch loop.
func Run(config defs.Config) error {
	s, err := New(config)
	if err != nil {
		return err
	}

	go s.ExecuteTask(defs.UpdaterInterval, s.UpdateDisplay)
	go s.ExecuteTask(defs.AnalyzerInterval, func() { s.AnalyzeDay(config.Alerts) })
	go func() {
		if err := s.HTTP.Serve(config.HTTPAddr); err != nil {
			s.Logger.Error("http server stopped", zap.Error(err))
		}
	}()

	s.ExecuteTask(defs.FetchInterval, s.FetchUploadEvents)
	return nil
}
