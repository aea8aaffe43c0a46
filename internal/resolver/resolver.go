// Package resolver follows the redirect chain of a submitted URL and hands
// back the terminal response for metadata extraction.
package resolver

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/balain/bkmrkr/internal/errors"
)

// maxHops caps the redirect chain. The fetch at hop maxHops+1 is accepted as
// terminal even when it is itself a redirect, so a redirect loop resolves to
// a deterministic 3xx response instead of an error.
const maxHops = 5

// Page is the terminal response of a resolved chain.
type Page struct {
	// Url is the terminal URL, after following zero or more redirects.
	Url        string
	StatusCode int
	Status     string
	Body       []byte
	Elapsed    time.Duration
}

type Resolver struct {
	// Client must not follow redirects on its own; NewResolver configures
	// this. Hop accounting happens here so the bound stays observable.
	Client *http.Client
	// Contact is advertised in the User-Agent so site operators can reach us.
	Contact string
}

func NewResolver(contact string) *Resolver {
	return &Resolver{
		Client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		Contact: contact,
	}
}

// Resolve fetches link and follows up to maxHops redirects.
func (res *Resolver) Resolve(link string) (*Page, error) {
	start := time.Now()
	page, err := res.resolve(link, 1)
	if err != nil {
		return nil, err
	}
	page.Elapsed = time.Since(start)
	return page, nil
}

func (res *Resolver) resolve(link string, hop int) (*Page, error) {
	req, err := http.NewRequest(http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", link, err)
	}
	userAgent := "bkmrkr"
	if res.Contact != "" {
		userAgent = fmt.Sprintf("bkmrkr (%s)", res.Contact)
	}
	req.Header.Set("User-Agent", userAgent)
	// Some hosts (crates.io among them) refuse requests without an explicit
	// HTML accept header.
	req.Header.Set("Accept", "text/html")

	resp, err := res.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", link, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 && hop <= maxHops {
		location := resp.Header.Get("Location")
		if location == "" {
			return nil, fmt.Errorf("%s returned %d: %w", link, resp.StatusCode, errors.ErrBadRedirect)
		}
		next, err := resolveReference(link, location)
		if err != nil {
			return nil, fmt.Errorf("bad location %q from %s: %w", location, link, err)
		}
		return res.resolve(next, hop+1)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", link, err)
	}
	return &Page{
		Url:        link,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
	}, nil
}

// resolveReference makes a Location header absolute against the URL that
// issued the redirect.
func resolveReference(base, location string) (string, error) {
	baseUrl, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return baseUrl.ResolveReference(ref).String(), nil
}
