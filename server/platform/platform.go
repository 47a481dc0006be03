// Package platform holds the contract shared by every third-party profile
// client: a profile is returned as (*T, error), where a missing profile is
// ErrNotFound and a non-success response is a *StatusError.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// PlaceholderImage is shown wherever no avatar or cover could be found.
const PlaceholderImage = "/static/placeholder.svg"

var ErrNotFound = errors.New("not found")

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status code: %d, response: %s", e.StatusCode, e.Body)
}

// Is makes a 404 response match ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// GetJSON performs a GET request against url and decodes the JSON response
// into v.
func GetJSON(ctx context.Context, httpClient *http.Client, url string, v any) error {
	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	rq.Header.Set("Accept", "application/json")

	rs, err := httpClient.Do(rq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer rs.Body.Close()

	if rs.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(rs.Body)
		return &StatusError{
			StatusCode: rs.StatusCode,
			Body:       string(data),
		}
	}

	logBuf := &bytes.Buffer{}
	bodyReader := io.TeeReader(rs.Body, logBuf)

	if err = json.NewDecoder(bodyReader).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %q: %w", logBuf.String(), err)
	}
	return nil
}
