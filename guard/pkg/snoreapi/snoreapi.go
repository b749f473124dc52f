package snoreapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"snoreguard/guard/defs"
	"snoreguard/guard/pkg/report"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	eventsEndpoint = "snoring_data"
	ahiEndpoint    = "ahi"

	// Query layout for the start_date/end_date parameters.
	queryTimeLayout = "2006-01-02 15:04"

	DateLayout = "2006-01-02"
)

type Client struct {
	client   *http.Client
	logger   *zap.Logger
	baseURL  string
	location *time.Location
}

type Source interface {
	Events(ctx context.Context, day time.Time) ([]defs.SnoreEvent, error)
	AHI(ctx context.Context, day time.Time) (*defs.AHIReading, error)
}

type eventsResponse struct {
	Data    []defs.SnoreEvent `json:"data"`
	Status  string            `json:"status"`
	Message *string           `json:"message"`
}

type ahiResponse struct {
	Data    []defs.AHIReading `json:"data"`
	Status  string            `json:"status"`
	Message *string           `json:"message"`
}

func New(baseURL string, logger *zap.Logger, loc *time.Location) *Client {
	if loc == nil {
		loc = time.Local
	}
	return &Client{
		client:   &http.Client{},
		logger:   logger,
		baseURL:  baseURL,
		location: loc,
	}
}

// Events fetches every episode recorded within [00:00, 23:59] of the
// given calendar day. Episodes with a parseable begin timestamp get
// their Time field populated; the rest are passed through untouched and
// left for the normalizer to discard.
func (c *Client) Events(ctx context.Context, day time.Time) ([]defs.SnoreEvent, error) {
	reqID := uuid.NewString()
	start, end := dayWindow(day, c.location)

	params := url.Values{
		"start_date": {start.Format(queryTimeLayout)},
		"end_date":   {end.Format(queryTimeLayout)},
	}

	c.logger.Debug("fetching snore events",
		zap.String("requestID", reqID),
		zap.String("start", params.Get("start_date")),
		zap.String("end", params.Get("end_date")),
	)

	var er eventsResponse
	if err := c.get(ctx, eventsEndpoint, params, &er); err != nil {
		return nil, err
	}

	for i := range er.Data {
		t, err := time.ParseInLocation(report.TimestampLayout, er.Data[i].Begin, c.location)
		if err != nil {
			c.logger.Debug("episode has unparseable begin timestamp",
				zap.String("requestID", reqID),
				zap.String("id", er.Data[i].ID),
				zap.String("begin", er.Data[i].Begin),
			)
			continue
		}
		er.Data[i].Time = t
	}

	c.logger.Debug("received snore events",
		zap.String("requestID", reqID),
		zap.Int("count", len(er.Data)),
	)

	return er.Data, nil
}

// AHI fetches the apnea-hypopnea record for the given day, or nil when
// none has been computed yet.
func (c *Client) AHI(ctx context.Context, day time.Time) (*defs.AHIReading, error) {
	reqID := uuid.NewString()
	start, end := dayWindow(day, c.location)

	params := url.Values{
		"start_date": {start.Format(queryTimeLayout)},
		"end_date":   {end.Format(queryTimeLayout)},
	}

	c.logger.Debug("fetching ahi",
		zap.String("requestID", reqID),
		zap.String("start", params.Get("start_date")),
		zap.String("end", params.Get("end_date")),
	)

	var ar ahiResponse
	if err := c.get(ctx, ahiEndpoint, params, &ar); err != nil {
		return nil, err
	}

	c.logger.Debug("received ahi records",
		zap.String("requestID", reqID),
		zap.Int("count", len(ar.Data)),
	)

	if len(ar.Data) == 0 {
		return nil, nil
	}
	return &ar.Data[0], nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status from %s: %s", endpoint, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Debug("failed to decode response", zap.String("endpoint", endpoint))
		return err
	}
	return nil
}

func dayWindow(day time.Time, loc *time.Location) (time.Time, time.Time) {
	day = day.In(loc)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 0, 0, loc)
	return start, end
}
