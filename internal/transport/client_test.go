package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
)

func TestClientGet(t *testing.T) {
	var gotAuth, gotAccept, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"b": 1, "a": {"z": true, "y": null}}`))
	}))
	defer srv.Close()

	c := New(&HeaderAuth{}, WithAPIKey("secret"), WithTimeout(time.Second))
	resp, err := c.Get(context.Background(), srv.URL+"/equity/account/cash")
	require.NoError(t, err)

	decoded, err := DecodeOrdered(resp)
	require.NoError(t, err)

	assert.Equal(t, "secret", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, DefaultUserAgent, gotUA)

	ordered, ok := decoded.(yaml.MapSlice)
	require.True(t, ok)
	require.Len(t, ordered, 2)
	assert.Equal(t, "b", ordered[0].Key)
	assert.Equal(t, "a", ordered[1].Key)
}

func TestClientWithoutKeySkipsAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	resp, err := New(&BearerAuth{}).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	_, err = DecodeOrdered(resp)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestDecodeStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"slow down"}`))
	}))
	defer srv.Close()

	resp, err := New(nil).Get(context.Background(), srv.URL+"/equity/orders")
	require.NoError(t, err)

	_, err = DecodeOrdered(resp)
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))

	var serr *errors.SourceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusTooManyRequests, serr.StatusCode)
	assert.Contains(t, serr.Message, "slow down")
	assert.Equal(t, "/equity/orders", serr.ResourceID)
}

func TestDecodeResponseIntoStruct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": 12, "currencyCode": "EUR"}`))
	}))
	defer srv.Close()

	resp, err := New(nil).Get(context.Background(), srv.URL)
	require.NoError(t, err)

	var info struct {
		ID           int    `yaml:"id"`
		CurrencyCode string `yaml:"currencyCode"`
	}
	require.NoError(t, DecodeResponse(resp, &info))
	assert.Equal(t, 12, info.ID)
	assert.Equal(t, "EUR", info.CurrencyCode)
}

func TestRateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(nil, WithRateLimit(0.001, 1))

	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Get(ctx, srv.URL)
	assert.Error(t, err, "second request must wait longer than the deadline")
}
