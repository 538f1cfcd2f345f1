package client

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/metrics"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/models"
)

const (
	defaultMaxRetries = 3
	baseRetryDelay    = 500 * time.Millisecond
	maxRetryDelay     = 10 * time.Second
)

// Client is the Euroleague feed API client. It is stateless across
// calls apart from the configured base URL, timeout and auth key.
type Client struct {
	baseURL    string
	authKey    string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a new Euroleague feed client
func NewClient(baseURL, authKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		authKey:    authKey,
		maxRetries: defaultMaxRetries,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SetMaxRetries overrides the retry ceiling (primarily for tests and
// manual operation)
func (c *Client) SetMaxRetries(n int) {
	c.maxRetries = n
}

// isRetryableStatus reports whether a status is worth another attempt.
// 429 is deliberately absent: rate limiting fails immediately.
func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// backoffDelay returns the wait before the given retry attempt
// (attempt 1 = first retry): min(0.5 * 2^(attempt-1), 10) seconds.
func backoffDelay(attempt int) time.Duration {
	d := baseRetryDelay * time.Duration(1<<uint(attempt-1))
	if d > maxRetryDelay {
		return maxRetryDelay
	}
	return d
}

// get performs a GET request against the feed with retry logic
func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	var lastStatus int
	var lastBody string
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := backoffDelay(attempt)
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying feed request after backoff")

			select {
			case <-ctx.Done():
				return nil, &TransportError{Endpoint: path, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/xml")
		req.Header.Set("User-Agent", "euroleague-stats/1.0")
		if c.authKey != "" {
			req.Header.Set("Authorization", c.authKey)
		}

		if len(params) > 0 {
			q := req.URL.Query()
			for key, value := range params {
				q.Add(key, value)
			}
			req.URL.RawQuery = q.Encode()
		}

		log.Debug().
			Str("url", url).
			Int("attempt", attempt+1).
			Msg("Making feed request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			metrics.RecordAPICall(path, "transport_error")
			if attempt < c.maxRetries {
				continue
			}
			return nil, &TransportError{Endpoint: path, Err: lastErr}
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			metrics.RecordAPICall(path, "transport_error")
			if attempt < c.maxRetries {
				continue
			}
			return nil, &TransportError{Endpoint: path, Err: lastErr}
		}

		metrics.RecordAPICall(path, fmt.Sprintf("%d", resp.StatusCode))

		switch {
		case resp.StatusCode == http.StatusOK:
			log.Debug().
				Str("url", url).
				Int("size", len(body)).
				Msg("Feed request successful")
			return body, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			// Immediate failure, the feed is throttling us
			return nil, &RateLimitError{Endpoint: path, Body: string(body)}

		case isRetryableStatus(resp.StatusCode):
			lastStatus = resp.StatusCode
			lastBody = string(body)
			if attempt < c.maxRetries {
				log.Warn().
					Str("url", url).
					Int("status", resp.StatusCode).
					Int("attempt", attempt+1).
					Msg("Received retryable status, will retry")
				continue
			}
			return nil, &RemoteServiceError{Endpoint: path, Status: lastStatus, Body: lastBody}

		default:
			return nil, &RemoteServiceError{Endpoint: path, Status: resp.StatusCode, Body: string(body)}
		}
	}

	if lastStatus != 0 {
		return nil, &RemoteServiceError{Endpoint: path, Status: lastStatus, Body: lastBody}
	}
	return nil, &TransportError{Endpoint: path, Err: lastErr}
}

// decode unmarshals a feed XML document into the given root struct
func decode(path string, body []byte, out interface{}) error {
	if err := xml.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// FetchTeams fetches all clubs for a season
func (c *Client) FetchTeams(ctx context.Context, season string) ([]models.TeamInput, error) {
	body, err := c.get(ctx, "teams", map[string]string{"seasonCode": season})
	if err != nil {
		return nil, err
	}

	var root models.TeamsResponse
	if err := decode("teams", body, &root); err != nil {
		return nil, err
	}
	return root.Teams, nil
}

// FetchPlayers fetches the player roster for a season
func (c *Client) FetchPlayers(ctx context.Context, season string) ([]models.PlayerInput, error) {
	body, err := c.get(ctx, "players", map[string]string{"seasonCode": season})
	if err != nil {
		return nil, err
	}

	var root models.PlayersResponse
	if err := decode("players", body, &root); err != nil {
		return nil, err
	}
	return root.Players, nil
}

// FetchGames fetches the game schedule and results for a season
func (c *Client) FetchGames(ctx context.Context, season string) ([]models.GameInput, error) {
	body, err := c.get(ctx, "games", map[string]string{"seasonCode": season})
	if err != nil {
		return nil, err
	}

	var root models.GamesResponse
	if err := decode("games", body, &root); err != nil {
		return nil, err
	}
	return root.Games, nil
}

// FetchBoxScores fetches per-player box score lines for a season
func (c *Client) FetchBoxScores(ctx context.Context, season string) ([]models.BoxScoreInput, error) {
	body, err := c.get(ctx, "boxscores", map[string]string{"seasonCode": season})
	if err != nil {
		return nil, err
	}

	var root models.BoxScoresResponse
	if err := decode("boxscores", body, &root); err != nil {
		return nil, err
	}
	return root.Stats, nil
}

// FetchSeasonStats fetches season aggregate statistics for every player
func (c *Client) FetchSeasonStats(ctx context.Context, season string) ([]models.SeasonStatsInput, error) {
	body, err := c.get(ctx, "seasonstats", map[string]string{"seasonCode": season})
	if err != nil {
		return nil, err
	}

	var root models.SeasonStatsResponse
	if err := decode("seasonstats", body, &root); err != nil {
		return nil, err
	}
	return root.Stats, nil
}

// FetchPlayerStats fetches season aggregates for one player. Returns
// (nil, nil) when the feed has no record for the player, so callers can
// distinguish "no data" from a failed call.
func (c *Client) FetchPlayerStats(ctx context.Context, season, playerCode string) (*models.SeasonStatsInput, error) {
	body, err := c.get(ctx, "playerstats", map[string]string{
		"seasonCode": season,
		"playerCode": playerCode,
	})
	if err != nil {
		return nil, err
	}

	var root models.SeasonStatsResponse
	if err := decode("playerstats", body, &root); err != nil {
		return nil, err
	}
	if len(root.Stats) == 0 {
		return nil, nil
	}
	return &root.Stats[0], nil
}

// FetchStandings fetches the league table for a season
func (c *Client) FetchStandings(ctx context.Context, season string) ([]models.StandingInput, error) {
	body, err := c.get(ctx, "standings", map[string]string{"seasonCode": season})
	if err != nil {
		return nil, err
	}

	var root models.StandingsResponse
	if err := decode("standings", body, &root); err != nil {
		return nil, err
	}
	return root.Standings, nil
}

// FetchTeamStats fetches team-level season statistics
func (c *Client) FetchTeamStats(ctx context.Context, season string) ([]models.TeamStatsInput, error) {
	body, err := c.get(ctx, "teamstats", map[string]string{"seasonCode": season})
	if err != nil {
		return nil, err
	}

	var root models.TeamStatsResponse
	if err := decode("teamstats", body, &root); err != nil {
		return nil, err
	}
	return root.Stats, nil
}
