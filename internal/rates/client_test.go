package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"currencyCodeA":840,"currencyCodeB":980,"date":1716400000,"rateBuy":41.2,"rateSell":41.8},
			{"currencyCodeA":978,"currencyCodeB":980,"date":1716400000,"rateCross":45.5}
		]`))
	}))
	defer srv.Close()

	batch, err := NewClient(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, CodeUSD, batch[0].CurrencyCodeA)
	assert.Equal(t, 41.8, batch[0].RateSell)
	assert.Equal(t, 0.0, batch[1].RateSell, "absent sell rate decodes as zero")
	assert.Equal(t, 45.5, batch[1].RateCross)
	assert.Equal(t, int64(1716400000), batch[1].Date)
}

func TestClientFetchNon2xxIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background())
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusTooManyRequests, fe.Status)
}

func TestClientFetchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := NewClient(srv.URL).Fetch(context.Background())
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.Status)
}

func TestClientFetchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background())
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
}
