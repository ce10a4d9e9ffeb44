package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheContext(t *testing.T, route, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(route)
	return c
}

func TestCacheKeySeparatesFiltersAndDetailPages(t *testing.T) {
	active := cacheKey("cache", cacheContext(t, "/v1/auctions", "/v1/auctions?status=active"))
	completed := cacheKey("cache", cacheContext(t, "/v1/auctions", "/v1/auctions?status=completed"))
	assert.NotEqual(t, active, completed, "catalogue filters must not share an entry")

	// the key hashes the concrete path, so each auction's detail page
	// gets its own entry
	d1 := cacheKey("cache", cacheContext(t, "/v1/auctions/:id", "/v1/auctions/1"))
	d2 := cacheKey("cache", cacheContext(t, "/v1/auctions/:id", "/v1/auctions/2"))
	assert.NotEqual(t, d1, d2)
}

func TestEncodeDecodePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"auctions":[],"count":0}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsTruncatedEntries(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0, 0})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 99})
	assert.False(t, ok)
}

func TestCaptureWriterMarksOverflow(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	_, err := cw.Write([]byte("over the limit"))
	require.NoError(t, err)

	assert.True(t, cw.overflow, "oversized bodies must not be cached")
	assert.Equal(t, "over the limit", rec.Body.String(), "the client still receives the full body")
}
