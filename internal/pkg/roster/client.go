// Package roster asks the department roster service which courses a user assists.
package roster

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/labdesk/internal/pkg/apperrors"
)

// notATA is the roster's answer for users who assist no course
const notATA = "NONE"

// maxBody bounds how much of the roster reply is read
const maxBody = 64 * 1024

// Client queries the roster over HTTP
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a roster client with a per-request timeout
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Lookup returns the course numbers the roster lists for email.
// isTA is false when the roster answers NONE.
func (c *Client) Lookup(ctx context.Context, email string) (courses []int, isTA bool, err error) {
	if c.baseURL == "" {
		return nil, false, fmt.Errorf("%w: roster url not configured", apperrors.ErrUpstream)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, false, fmt.Errorf("%w: invalid roster url: %v", apperrors.ErrUpstream, err)
	}
	q := u.Query()
	q.Set("email", email)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("email", email).Msg("Roster lookup failed")
		return nil, false, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Str("email", email).Msg("Roster returned non-OK status")
		return nil, false, fmt.Errorf("%w: roster returned status %d", apperrors.ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}

	courses, isTA, err = Parse(string(body))
	if err != nil {
		c.logger.Error().Err(err).Str("email", email).Msg("Unreadable roster answer")
		return nil, false, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	c.logger.Debug().Str("email", email).Bool("isTA", isTA).Ints("courses", courses).Msg("Roster lookup")
	return courses, isTA, nil
}

// Parse reads a roster answer: NONE, or whitespace separated course numbers
func Parse(body string) ([]int, bool, error) {
	body = strings.TrimSpace(body)
	if body == notATA || body == "" {
		return nil, false, nil
	}

	fields := strings.Fields(body)
	courses := make([]int, 0, len(fields))
	seen := make(map[int]bool, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, false, fmt.Errorf("invalid course number %q", f)
		}
		if !seen[n] {
			seen[n] = true
			courses = append(courses, n)
		}
	}
	return courses, true, nil
}
