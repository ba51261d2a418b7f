// Package market fetches the plastics and resins producer price index that
// the cost panel shows next to a layout's economics.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/piwi3910/thermolayout/internal/httputil"
)

const (
	// DefaultBaseURL is the FRED observations endpoint.
	DefaultBaseURL = "https://api.stlouisfed.org/fred/series/observations"
	// SeriesPlasticsResins is the PPI for plastics material and resin manufacturing.
	SeriesPlasticsResins = "PCU3252113252111"
	// Months is the number of monthly observations requested.
	Months = 13
)

// Where a series came from.
const (
	SourceLive     = "live"
	SourceCache    = "cache"
	SourceStale    = "stale-cache"
	SourceFallback = "fallback"
)

var (
	// ErrNoAPIKey means no FRED API key was configured.
	ErrNoAPIKey = errors.New("FRED API key not configured")
	// ErrInsufficientData means fewer than two usable observations came back.
	ErrInsufficientData = errors.New("not enough observations")
)

// Observation is one monthly index value.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Label formats the date as "Jan 2006".
func (o Observation) Label() string {
	return o.Date.Format("Jan 2006")
}

// Series is an ascending run of observations plus where it came from.
// Err records why a non-live source was used. CacheErr records a live
// series that could not be written back to the cache.
type Series struct {
	ID           string        `json:"id"`
	Observations []Observation `json:"observations"`
	Source       string        `json:"source"`
	Err          error         `json:"-"`
	CacheErr     error         `json:"-"`
}

// Live reports whether the series was fetched just now.
func (s Series) Live() bool { return s.Source == SourceLive }

// Values returns the observation values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.Value
	}
	return out
}

// Summary holds the figures shown on the index panel.
type Summary struct {
	Latest    Observation
	Previous  Observation
	YearAgo   Observation
	MoMChange float64
	MoMPct    float64
	YoYChange float64
	YoYPct    float64
	Min, Max  float64
}

// Summarize compares the latest value with the month before and with the
// first observation of the window. It needs at least two observations.
func (s Series) Summarize() (Summary, error) {
	n := len(s.Observations)
	if n < 2 {
		return Summary{}, ErrInsufficientData
	}
	latest, prev, first := s.Observations[n-1], s.Observations[n-2], s.Observations[0]
	sum := Summary{
		Latest:    latest,
		Previous:  prev,
		YearAgo:   first,
		MoMChange: latest.Value - prev.Value,
		YoYChange: latest.Value - first.Value,
		Min:       latest.Value,
		Max:       latest.Value,
	}
	if prev.Value != 0 {
		sum.MoMPct = sum.MoMChange / prev.Value * 100
	}
	if first.Value != 0 {
		sum.YoYPct = sum.YoYChange / first.Value * 100
	}
	for _, o := range s.Observations {
		sum.Min = min(sum.Min, o.Value)
		sum.Max = max(sum.Max, o.Value)
	}
	return sum, nil
}

// Client fetches index series from FRED.
type Client struct {
	BaseURL  string
	APIKey   string
	HTTP     *http.Client
	Cache    *httputil.Cache // nil disables caching
	Attempts int
	Delay    time.Duration
}

// NewClient returns a client with a 10 second timeout and three attempts.
func NewClient(apiKey string, cache *httputil.Cache) *Client {
	c := &Client{
		BaseURL:  DefaultBaseURL,
		APIKey:   apiKey,
		HTTP:     &http.Client{Timeout: 10 * time.Second},
		Attempts: 3,
		Delay:    time.Second,
	}
	if cache != nil {
		c.Cache = cache.Namespace("fred:")
	}
	return c
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// FetchPPI fetches the latest Months observations of the series, newest
// first on the wire, and returns them ascending. Missing values (".") are
// dropped.
func (c *Client) FetchPPI(ctx context.Context, seriesID string) ([]Observation, error) {
	if c.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("sort_order", "desc")
	q.Set("limit", strconv.Itoa(Months))
	q.Set("file_type", "json")
	q.Set("api_key", c.APIKey)
	endpoint := c.BaseURL + "?" + q.Encode()

	var resp observationsResponse
	err := httputil.Retry(ctx, c.Attempts, c.Delay, func() error {
		return c.getJSON(ctx, endpoint, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch series %s: %w", seriesID, err)
	}

	obs := make([]Observation, 0, len(resp.Observations))
	for i := len(resp.Observations) - 1; i >= 0; i-- {
		raw := resp.Observations[i]
		if raw.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(raw.Value, 64)
		if err != nil {
			continue
		}
		d, err := time.Parse("2006-01-02", raw.Date)
		if err != nil {
			continue
		}
		obs = append(obs, Observation{Date: d, Value: v})
	}
	if len(obs) < 2 {
		return nil, fmt.Errorf("series %s: %w (%d usable)", seriesID, ErrInsufficientData, len(obs))
	}
	return obs, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp.StatusCode); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// PPI returns the plastics and resins index from the first source that
// works: a fresh cache entry, a live fetch, a stale cache entry, and finally
// the embedded series. It never fails; Series.Err says why a live fetch was
// not used. refresh skips the fresh-cache lookup.
func (c *Client) PPI(ctx context.Context, refresh bool) Series {
	id := SeriesPlasticsResins
	var cached []Observation

	if c.Cache != nil && !refresh {
		if ok, err := c.Cache.Get(id, &cached); err == nil && ok && len(cached) >= 2 {
			return Series{ID: id, Observations: cached, Source: SourceCache}
		}
	}

	obs, fetchErr := c.FetchPPI(ctx, id)
	if fetchErr == nil {
		s := Series{ID: id, Observations: obs, Source: SourceLive}
		if c.Cache != nil {
			if err := c.Cache.Set(id, obs); err != nil {
				s.CacheErr = fmt.Errorf("failed to cache %s: %w", id, err)
			}
		}
		return s
	}

	if c.Cache != nil {
		if _, ok, err := c.Cache.GetStale(id, &cached); err == nil && ok && len(cached) >= 2 {
			return Series{ID: id, Observations: cached, Source: SourceStale, Err: fetchErr}
		}
	}

	return Series{ID: id, Observations: Fallback(), Source: SourceFallback, Err: fetchErr}
}
