package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"snoreguard/guard/pkg/mg"
	"snoreguard/guard/pkg/rcache"
	"snoreguard/guard/pkg/report"
	"snoreguard/guard/pkg/snoreapi"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const requestTimeout = 2 * time.Second

type httpStore interface {
	mg.EventStore
	mg.AHIStore
}

type SummaryCache interface {
	GetSummary(ctx context.Context, date string) (*report.DaySummary, error)
	PutSummary(ctx context.Context, summary report.DaySummary) error
}

// HttpServer is the read-only query surface: day summaries, raw
// episodes, and AHI records.
type HttpServer struct {
	Store httpStore
	Cache SummaryCache

	Logger   *zap.Logger
	Location *time.Location
}

var _ SummaryCache = (*rcache.Cache)(nil)

func New(s httpStore, cache SummaryCache, logger *zap.Logger, loc *time.Location) *HttpServer {
	return &HttpServer{
		Store:    s,
		Cache:    cache,
		Logger:   logger,
		Location: loc,
	}
}

func (s *HttpServer) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/summary", s.getSummary)
	r.GET("/events", s.getEvents)
	r.GET("/ahi", s.getAHI)

	return r
}

func (s *HttpServer) Serve(addr string) error {
	return s.Router().Run(addr)
}

func (s *HttpServer) getSummary(c *gin.Context) {
	date := c.DefaultQuery("date", "")
	day, err := time.ParseInLocation(snoreapi.DateLayout, date, s.Location)
	if err != nil {
		c.String(http.StatusBadRequest, "expected date in YYYY-MM-DD form")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	// The current day is still accruing episodes, so only past days are
	// safe to serve from (or write to) the cache.
	cacheable := date != time.Now().In(s.Location).Format(snoreapi.DateLayout)

	if cacheable {
		if cached, err := s.Cache.GetSummary(ctx, date); err == nil && cached != nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	start := day
	end := day.Add(24*time.Hour - time.Minute)
	events, err := s.Store.ReadEvents(ctx, start, end)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong reading events")
		return
	}

	summary, dropped := report.BuildDaySummary(date, events, s.Location)
	if dropped > 0 {
		s.Logger.Debug("dropped malformed episodes",
			zap.String("date", date),
			zap.Int("dropped", dropped),
		)
	}

	if cacheable {
		if err := s.Cache.PutSummary(ctx, summary); err != nil {
			s.Logger.Debug("unable to cache summary", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, summary)
}

func (s *HttpServer) getEvents(c *gin.Context) {
	end := c.DefaultQuery("end", "")
	endUnix, err := strconv.Atoi(end)
	if err != nil {
		c.String(http.StatusBadRequest, "expected unix timestamp for end")
		return
	}

	start := c.DefaultQuery("start", "")
	startUnix, err := strconv.Atoi(start)
	if err != nil {
		c.String(http.StatusBadRequest, "expected unix timestamp for start")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	events, err := s.Store.ReadEvents(ctx, time.Unix(int64(startUnix), 0), time.Unix(int64(endUnix), 0))
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong reading events")
		return
	}

	c.JSON(http.StatusOK, events)
}

func (s *HttpServer) getAHI(c *gin.Context) {
	date := c.DefaultQuery("date", "")
	if _, err := time.ParseInLocation(snoreapi.DateLayout, date, s.Location); err != nil {
		c.String(http.StatusBadRequest, "expected date in YYYY-MM-DD form")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	reading, err := s.Store.ReadAHI(ctx, date)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong reading ahi")
		return
	}
	if reading == nil {
		c.String(http.StatusNotFound, "no ahi data for %s", date)
		return
	}

	c.JSON(http.StatusOK, reading)
}
