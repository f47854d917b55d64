package transport

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/logging"
)

// maxErrorBody bounds how much of an error response ends up in messages.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response body into target. Status codes
// outside 2xx become a *errors.SourceError carrying the code.
func DecodeResponse(resp *http.Response, target any) error {
	body, err := readBody(resp)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", requestPath(resp), err)
	}
	return nil
}

// DecodeOrdered decodes a JSON response body into generic values, keeping the
// key order of every object as a yaml.MapSlice.
func DecodeOrdered(resp *http.Response) (any, error) {
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}
	var out any
	if err := yaml.UnmarshalWithOptions(body, &out, yaml.UseOrderedMap()); err != nil {
		return nil, errors.WrapParse("json", requestPath(resp), err)
	}
	return out, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapSource("http", requestPath(resp), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody] + "..."
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &errors.SourceError{
			Source:     "http",
			ResourceID: requestPath(resp),
			StatusCode: resp.StatusCode,
			Message:    msg,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
	return body, nil
}

func requestPath(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	return resp.Request.URL.Path
}
