package catapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catimporter/backend/internal/apperr"
)

func newTestServer(t *testing.T, status int, body string, seen func(*http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			seen(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchImagesSendsKeyAndQuery(t *testing.T) {
	var got *http.Request
	srv := newTestServer(t, http.StatusOK, `[
		{"id":"abc","width":640,"height":480,"url":"https://cdn2.thecatapi.com/images/abc.jpg",
		 "breeds":[{"id":"beng","name":"Bengal","temperament":"Alert, Agile, Energetic"}]},
		{"id":"def","width":100,"height":200,"url":"https://cdn2.thecatapi.com/images/def.jpg"}
	]`, func(r *http.Request) { got = r })

	client := NewClient(srv.URL+"/", "secret", 5*time.Second)
	images, err := client.FetchImages(context.Background(), 2)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/images/search", got.URL.Path)
	assert.Equal(t, "secret", got.Header.Get("x-api-key"))
	assert.Equal(t, "2", got.URL.Query().Get("limit"))
	assert.Equal(t, "true", got.URL.Query().Get("has_breeds"))
	assert.Equal(t, "RANDOM", got.URL.Query().Get("order"))

	require.Len(t, images, 2)
	assert.Equal(t, "abc", images[0].ID)
	assert.Equal(t, 640, images[0].Width)
	require.Len(t, images[0].Breeds, 1)
	assert.Equal(t, "Alert, Agile, Energetic", images[0].Breeds[0].Temperament)
	assert.Empty(t, images[1].Breeds)
}

func TestFetchImagesWithoutKeyOmitsHeader(t *testing.T) {
	var got *http.Request
	srv := newTestServer(t, http.StatusOK, `[]`, func(r *http.Request) { got = r })

	images, err := NewClient(srv.URL, "", time.Second).FetchImages(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.Empty(t, got.Header.Get("x-api-key"))
}

func TestFetchImagesNonSuccessStatus(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized, `{"message":"bad key"}`, nil)

	_, err := NewClient(srv.URL, "bad", time.Second).FetchImages(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUpstreamFetch)
	assert.Contains(t, err.Error(), "401")
}

func TestFetchImagesTransportError(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[]`, nil)
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "", time.Second).FetchImages(context.Background(), 1)
	assert.ErrorIs(t, err, apperr.ErrUpstreamFetch)
}

func TestFetchImagesMalformedPayload(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"not":"an array"}`, nil)

	_, err := NewClient(srv.URL, "", time.Second).FetchImages(context.Background(), 1)
	assert.ErrorIs(t, err, apperr.ErrUpstreamParse)
}

func TestDecodeRejectsMissingFields(t *testing.T) {
	client := NewClient("http://unused", "", time.Second)

	tests := []struct {
		name string
		body string
	}{
		{"missing id", `[{"width":1,"height":1,"url":"https://x.test/a.jpg"}]`},
		{"missing width", `[{"id":"a","height":1,"url":"https://x.test/a.jpg"}]`},
		{"missing height", `[{"id":"a","width":1,"url":"https://x.test/a.jpg"}]`},
		{"missing url", `[{"id":"a","width":1,"height":1}]`},
		{"bad url", `[{"id":"a","width":1,"height":1,"url":"not a url"}]`},
		{"wrong type", `[{"id":7,"width":1,"height":1,"url":"https://x.test/a.jpg"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Decode([]byte(tt.body))
			assert.ErrorIs(t, err, apperr.ErrUpstreamParse)
		})
	}
}

func TestDecodeAcceptsNullBreeds(t *testing.T) {
	client := NewClient("http://unused", "", time.Second)

	images, err := client.Decode([]byte(`[{"id":"a","width":1,"height":1,"url":"https://x.test/a.jpg","breeds":null}]`))
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Nil(t, images[0].Breeds)
}
