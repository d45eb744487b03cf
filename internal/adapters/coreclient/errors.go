package coreclient

import (
	"encoding/json"
	"fmt"
	"net/http"

	"product-composite/pkg/api"
	"product-composite/pkg/apierrors"
	"product-composite/pkg/logattr"
)

// mapHTTPError classifies an upstream error response: 404 becomes NotFound,
// 422 becomes InvalidInput, anything else stays an unexpected error with
// status and body preserved for the operator.
func (c *Client) mapHTTPError(status int, body []byte, url string) error {
	switch status {
	case http.StatusNotFound:
		return apierrors.NewNotFound("%s", errorMessage(body, fmt.Sprintf("got 404 from %s", url)))
	case http.StatusUnprocessableEntity:
		return apierrors.NewInvalidInput("%s", errorMessage(body, fmt.Sprintf("got 422 from %s", url)))
	default:
		c.logger.Warn("got an unexpected HTTP error, will rethrow it", logattr.Status(status), logattr.URL(url), logattr.Error(string(body)))
		return fmt.Errorf("unexpected HTTP status %d from %s", status, url)
	}
}

// errorMessage extracts the human-readable message from an HttpErrorInfo
// body, falling back when the body does not parse as one.
func errorMessage(body []byte, fallback string) string {
	var info api.HttpErrorInfo
	if err := json.Unmarshal(body, &info); err != nil || info.Message == "" {
		return fallback
	}
	return info.Message
}
