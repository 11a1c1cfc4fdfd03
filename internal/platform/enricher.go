package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"

	"mixtape/internal/logger"
)

// Metadata is the optional enrichment a video API can supply for a song.
type Metadata struct {
	Title        string
	Author       string
	ThumbnailURL string
}

// Enricher fetches richer song metadata from YouTube's oEmbed endpoint.
// Enrichment is strictly best-effort: every call is bounded by a timeout
// and a circuit breaker, and callers proceed without metadata on any
// failure.
type Enricher struct {
	retry   *retryablehttp.Client
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewEnricher creates an Enricher with retry and circuit breaker defaults
// tuned so a flapping upstream can never stall song creation.
func NewEnricher() *Enricher {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 500 * time.Millisecond
	client.Logger = nil

	settings := gobreaker.Settings{
		Name:        "youtube-oembed",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}

	return &Enricher{
		retry:   client,
		breaker: gobreaker.NewCircuitBreaker(settings),
		timeout: 2 * time.Second,
	}
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Enrich looks up metadata for a YouTube song URL. Returns nil (no error)
// for non-YouTube platforms and on any upstream failure; failures are
// logged and swallowed so the caller's write path is never blocked.
func (e *Enricher) Enrich(ctx context.Context, songURL, plat string) *Metadata {
	if plat != YouTube {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	result, err := e.breaker.Execute(func() (interface{}, error) {
		endpoint := fmt.Sprintf("https://www.youtube.com/oembed?url=%s&format=json", url.QueryEscape(songURL))
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		resp, err := e.retry.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("oembed returned status %d", resp.StatusCode)
		}
		var body oembedResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, err
		}
		return &body, nil
	})
	if err != nil {
		logger.Warn("song metadata enrichment failed", "url", songURL, "error", err)
		return nil
	}

	body := result.(*oembedResponse)
	return &Metadata{
		Title:        body.Title,
		Author:       body.AuthorName,
		ThumbnailURL: body.ThumbnailURL,
	}
}
