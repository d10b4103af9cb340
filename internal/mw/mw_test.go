package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCache(t *testing.T) {
	hits := 0
	status := http.StatusOK
	r := gin.New()
	r.Use(Cache(cache.New(time.Minute, time.Minute), time.Minute))
	r.GET("/items", func(c *gin.Context) {
		hits++
		c.Header("X-Upstream", "records")
		c.JSON(status, gin.H{"hits": hits})
	})
	r.POST("/items", func(c *gin.Context) {
		hits++
		c.Status(http.StatusCreated)
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		return w
	}

	first := get("/items")
	assert.Equal(t, "MISS", first.Header().Get(CacheHeader))
	assert.JSONEq(t, `{"hits":1}`, first.Body.String())

	second := get("/items")
	assert.Equal(t, "HIT", second.Header().Get(CacheHeader))
	assert.Equal(t, "records", second.Header().Get("X-Upstream"))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, `{"hits":1}`, second.Body.String())
	assert.Equal(t, 1, hits)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/items", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, 2, hits, "non-GET requests bypass the cache")

	status = http.StatusInternalServerError
	get("/items?fresh=1")
	get("/items?fresh=1")
	assert.Equal(t, 4, hits, "error responses are not cached")
}

func TestCache_KeysOnURLWithoutRequestURI(t *testing.T) {
	r := gin.New()
	r.Use(Cache(cache.New(time.Minute, time.Minute), time.Minute))
	r.GET("/a", func(c *gin.Context) { c.String(http.StatusOK, "a") })
	r.GET("/b", func(c *gin.Context) { c.String(http.StatusOK, "b") })

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RequestURI = ""
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, "a", get("/a").Body.String())
	b := get("/b")
	assert.Equal(t, "MISS", b.Header().Get(CacheHeader))
	assert.Equal(t, "b", b.Body.String())
	assert.Equal(t, "HIT", get("/a").Header().Get(CacheHeader))
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes[i] = w.Code
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "limits are per client")
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	first := l.GetLimiter("10.0.0.1")
	l.GetLimiter("10.0.0.2")
	assert.Equal(t, 2, l.Len())
	assert.Same(t, first, l.GetLimiter("10.0.0.1"))

	now = now.Add(idleTTL + time.Second)
	l.GetLimiter("10.0.0.3")
	assert.Equal(t, 1, l.Len())
}
