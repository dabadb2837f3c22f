package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"climatelens/internal/common"
	"climatelens/internal/interfaces"
)

// Service implements the GeocodeService interface against a
// Nominatim-compatible search endpoint. Requests are rate limited client-side
// per the Nominatim usage policy (one request per second by default) and must
// carry an identifying User-Agent.
type Service struct {
	config     *common.GeocodeConfig
	logger     arbor.ILogger
	httpClient *http.Client
	limiter    *rate.Limiter
}

// nominatimResult is one entry of the Nominatim search response. Coordinates
// arrive as strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewService creates a new geocode service instance
func NewService(config *common.GeocodeConfig, logger arbor.ILogger) (interfaces.GeocodeService, error) {
	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid geocode timeout '%s': %w", config.Timeout, err)
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &Service{
		config: config,
		logger: logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

// Lookup resolves a place name to coordinates. An unresolvable place returns
// (nil, nil); only transport and decode failures return errors.
func (s *Service) Lookup(ctx context.Context, place string) (*interfaces.LatLon, error) {
	if place == "" {
		return nil, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocode rate limit wait aborted: %w", err)
	}

	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "json")
	params.Set("limit", "1")

	fullURL := fmt.Sprintf("%s?%s", s.config.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geocode request returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if len(results) == 0 {
		s.logger.Debug().
			Str("place", place).
			Dur("duration", time.Since(start)).
			Msg("Place not found")
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode response has malformed latitude '%s': %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode response has malformed longitude '%s': %w", results[0].Lon, err)
	}

	s.logger.Debug().
		Str("place", place).
		Str("resolved", results[0].DisplayName).
		Float64("lat", lat).
		Float64("lon", lon).
		Dur("duration", time.Since(start)).
		Msg("Place resolved")

	return &interfaces.LatLon{Lat: lat, Lon: lon}, nil
}
