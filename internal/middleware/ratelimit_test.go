package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newTestContext(t *testing.T, method, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/auctions/:id/bids")
	return c
}

func TestRateKeyUsesNumericSubjectClaim(t *testing.T) {
	c := newTestContext(t, "POST", "/v1/auctions/7/bids")
	// JWT numeric claims arrive as float64
	c.Set("user_id", float64(42))

	key := rateKey("rl", c)
	assert.Equal(t, "rl:user:42:POST /v1/auctions/:id/bids", key)
}

func TestRateKeyDistinctUsersGetDistinctBuckets(t *testing.T) {
	a := newTestContext(t, "POST", "/v1/auctions/7/bids")
	a.Set("user_id", float64(1))
	b := newTestContext(t, "POST", "/v1/auctions/7/bids")
	b.Set("user_id", float64(2))

	assert.NotEqual(t, rateKey("rl", a), rateKey("rl", b))
}

func TestRateKeyFallsBackToClientIP(t *testing.T) {
	c := newTestContext(t, "POST", "/v1/auctions/7/bids")

	key := rateKey("rl", c)
	assert.Contains(t, key, ":ip:")
	assert.NotContains(t, key, ":user:")
}

func TestCurrentUserIDHandlesClaimWireTypes(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{float64(42), "42"},
		{uint64(7), "7"},
		{int(3), "3"},
		{int64(9), "9"},
		{"15", "15"},
		{nil, ""},
	}
	for _, tc := range cases {
		c := newTestContext(t, "GET", "/v1/wallet")
		if tc.in != nil {
			c.Set("user_id", tc.in)
		}
		assert.Equal(t, tc.want, currentUserID(c))
	}
}
