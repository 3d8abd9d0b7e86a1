package nominatim

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"eri-tracker-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, baseURL string) *Resolver {
	t.Helper()
	resolver, err := NewResolver(Config{
		BaseURL:      baseURL,
		UserAgent:    "test-agent",
		Region:       "Минская область",
		Country:      "Беларусь",
		CountryCodes: "by",
	})
	require.NoError(t, err)
	return resolver
}

func TestResolve_FirstCandidateWins(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "by", r.URL.Query().Get("countrycodes"))
		io.WriteString(w, `[{"lat":"53.9006","lon":"27.5590"}]`)
	}))
	defer server.Close()

	resolver := newTestResolver(t, server.URL)

	coords, err := resolver.Resolve(context.Background(), domain.Listing{
		ID:       1,
		Position: "д. Дубовцы, Минский р-н",
	})

	require.NoError(t, err)
	require.NotNil(t, coords)
	assert.InDelta(t, 53.9006, coords.Lat, 1e-9)
	assert.InDelta(t, 27.5590, coords.Lon, 1e-9)
	// Первый же вариант дал результат, остальные не запрашивались
	assert.Equal(t, []string{"д. Дубовцы, Минский р-н, Беларусь"}, queries)
}

func TestResolve_FallsBackToSimplerCandidate(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		queries = append(queries, q)
		if len(queries) == 1 {
			io.WriteString(w, `[]`)
			return
		}
		io.WriteString(w, `[{"lat":"54.1000","lon":"26.9000"}]`)
	}))
	defer server.Close()

	resolver := newTestResolver(t, server.URL)

	coords, err := resolver.Resolve(context.Background(), domain.Listing{
		ID:       2,
		Position: "д. Дубовцы, Минский р-н",
	})

	require.NoError(t, err)
	require.NotNil(t, coords)
	assert.InDelta(t, 54.1, coords.Lat, 1e-9)
	assert.Len(t, queries, 2)
	assert.Equal(t, "д. Дубовцы, Минская область, Беларусь", queries[1])
}

func TestResolve_ServerErrorDoesNotStopIteration(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, `[{"lat":"53.0","lon":"27.0"}]`)
	}))
	defer server.Close()

	resolver := newTestResolver(t, server.URL)

	coords, err := resolver.Resolve(context.Background(), domain.Listing{
		ID:       3,
		Position: "д. Лесная, Минский р-н",
	})

	require.NoError(t, err)
	require.NotNil(t, coords)
	assert.Equal(t, 2, calls)
}

func TestResolve_AllCandidatesMiss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))
	defer server.Close()

	resolver := newTestResolver(t, server.URL)

	coords, err := resolver.Resolve(context.Background(), domain.Listing{
		ID:       4,
		Position: "д. Дубовцы, Минский р-н",
	})

	require.NoError(t, err)
	assert.Nil(t, coords)
}
