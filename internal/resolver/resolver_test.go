package resolver_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balain/bkmrkr/internal/errors"
	"github.com/balain/bkmrkr/internal/resolver"
)

func TestResolveNoRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><title>Plain</title></html>")
	}))
	defer server.Close()

	page, err := resolver.NewResolver("").Resolve(server.URL)
	require.NoError(t, err)
	assert.Equal(t, server.URL, page.Url)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, string(page.Body), "Plain")
}

func TestResolveSendsIdentifyingHeaders(t *testing.T) {
	var userAgent, accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		accept = r.Header.Get("Accept")
	}))
	defer server.Close()

	_, err := resolver.NewResolver("ops@example.com").Resolve(server.URL)
	require.NoError(t, err)
	assert.Equal(t, "bkmrkr (ops@example.com)", userAgent)
	assert.Equal(t, "text/html", accept)
}

// redirectChain serves /hop/N redirecting to /hop/N+1 until depth is
// reached, then responds 200 with a marker body.
func redirectChain(t *testing.T, depth int) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	mux := http.NewServeMux()
	for i := 1; i <= depth; i++ {
		next := fmt.Sprintf("/hop/%d", i+1)
		mux.HandleFunc(fmt.Sprintf("/hop/%d", i), func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, next, http.StatusMovedPermanently)
		})
	}
	mux.HandleFunc(fmt.Sprintf("/hop/%d", depth+1), func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "arrived at %d", depth+1)
	})
	server = httptest.NewServer(mux)
	return server
}

func TestResolveFollowsChainWithinBound(t *testing.T) {
	for _, depth := range []int{1, 3, 5} {
		server := redirectChain(t, depth)
		page, err := resolver.NewResolver("").Resolve(server.URL + "/hop/1")
		require.NoError(t, err, "depth %d", depth)
		assert.Equal(t, http.StatusOK, page.StatusCode)
		assert.Equal(t, fmt.Sprintf("%s/hop/%d", server.URL, depth+1), page.Url)
		assert.Equal(t, fmt.Sprintf("arrived at %d", depth+1), string(page.Body))
		server.Close()
	}
}

func TestResolveSixthRedirectIsTerminal(t *testing.T) {
	// With 6 redirecting hops the resolver stops at hop 6 and reports the
	// redirect response itself as terminal instead of looping on.
	server := redirectChain(t, 6)
	defer server.Close()

	page, err := resolver.NewResolver("").Resolve(server.URL + "/hop/1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusMovedPermanently, page.StatusCode)
	assert.Equal(t, server.URL+"/hop/6", page.Url)
}

func TestResolveNeverLoopsOnCycle(t *testing.T) {
	hits := 0
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Redirect(w, r, server.URL, http.StatusFound)
	}))
	defer server.Close()

	page, err := resolver.NewResolver("").Resolve(server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, page.StatusCode)
	assert.Equal(t, 6, hits)
}

func TestResolveNonRedirectErrorStatusIsTerminal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	page, err := resolver.NewResolver("").Resolve(server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusGone, page.StatusCode)
}

func TestResolveMissingLocationFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMovedPermanently)
	}))
	defer server.Close()

	_, err := resolver.NewResolver("").Resolve(server.URL)
	assert.ErrorIs(t, err, errors.ErrBadRedirect)
}

func TestResolveRelativeLocation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/end")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "end")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	page, err := resolver.NewResolver("").Resolve(server.URL + "/start")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/end", page.Url)
	assert.Equal(t, "end", string(page.Body))
}

func TestResolveNetworkErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := resolver.NewResolver("").Resolve(server.URL)
	assert.Error(t, err)
}
