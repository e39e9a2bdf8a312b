package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// HTTPError is returned for any non-2xx response. Body holds the raw reply.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return e.Status + ": " + e.Body
}

// SendRequest performs one request and returns the raw response body.
// Non-2xx responses return the body together with an *HTTPError.
func SendRequest(
	ctx context.Context,
	client *http.Client,
	logger *slog.Logger,
	method string,
	fullURL string,
	headers map[string]string,
	queryParams url.Values,
	body any,
) ([]byte, error) {
	var bodyReader io.Reader

	// Prepare request body based on Content-Type
	if body != nil {
		contentType := headers["Content-Type"]

		switch contentType {
		case "application/x-www-form-urlencoded":
			formValues, ok := body.(url.Values)
			if !ok {
				return nil, fmt.Errorf("body must be url.Values when using application/x-www-form-urlencoded")
			}
			bodyReader = strings.NewReader(formValues.Encode())

		case "application/json", "":
			b, err := json.Marshal(body)
			if err != nil {
				return nil, err
			}
			bodyReader = bytes.NewBuffer(b)

		default:
			return nil, fmt.Errorf("unsupported Content-Type: %s", contentType)
		}
	}

	u, err := url.Parse(fullURL)
	if err != nil {
		return nil, err
	}
	if len(queryParams) > 0 {
		q := u.Query()
		for k, v := range queryParams {
			q[k] = v
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, err
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil && headers["Content-Type"] == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	logger.Debug("HTTP Request", "method", method, "url", u.Redacted(), "status", resp.StatusCode, "body", string(respBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return respBytes, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(respBytes)}
	}

	return respBytes, nil
}

// MakeHTTPRequest is SendRequest plus JSON decoding of a 2xx reply into T.
func MakeHTTPRequest[T any](
	ctx context.Context,
	client *http.Client,
	logger *slog.Logger,
	method string,
	fullURL string,
	headers map[string]string,
	queryParams url.Values,
	body any,
) (T, error) {
	var result T

	respBytes, err := SendRequest(ctx, client, logger, method, fullURL, headers, queryParams, body)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(respBytes, &result); err != nil {
		return result, fmt.Errorf("decoding response: %w", err)
	}

	return result, nil
}
