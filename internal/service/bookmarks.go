package service

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/balain/bkmrkr/internal/auth/context/loggercontext"
	"github.com/balain/bkmrkr/internal/auth/context/usercontext"
	"github.com/balain/bkmrkr/internal/cache"
	"github.com/balain/bkmrkr/internal/errors"
	"github.com/balain/bkmrkr/internal/keys"
	"github.com/balain/bkmrkr/internal/meta"
	"github.com/balain/bkmrkr/internal/models"
	"github.com/balain/bkmrkr/internal/resolver"
	"github.com/balain/bkmrkr/internal/validations"
	"github.com/balain/bkmrkr/web"
)

type Bookmarks struct {
	Templates struct {
		Display web.Template
		Saved   web.Template
	}
	BookmarkModel *models.BookmarkModel
	Snapshots     *cache.SnapshotStore
	Resolver      *resolver.Resolver
	// AliasEnabled controls short-alias minting for new records.
	AliasEnabled bool
	// ReferenceYear drives the month/day date rendering in list views.
	ReferenceYear int
}

// Save ingests the submitted URL: resolve redirects, extract metadata, hash
// the terminal URL, persist the record and its snapshot, confirm.
func (b Bookmarks) Save(w http.ResponseWriter, r *http.Request) {
	logger := loggercontext.Logger(r.Context())
	owner := usercontext.User(r.Context())
	link := r.FormValue("url")

	bookmark, err := b.ingest(r, owner, link)
	if err != nil {
		logger.Errorw("ingesting bookmark", "url", link, "error", err)
		if errors.Is(err, errors.ErrInvalidUrl) {
			http.Error(w, "Invalid URL", http.StatusBadRequest)
			return
		}
		var pubErr interface{ Public() string }
		if errors.As(err, &pubErr) {
			http.Error(w, pubErr.Public(), http.StatusBadGateway)
			return
		}
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	var data struct {
		Title     string
		Url       string
		Hash      string
		Timestamp int64
	}
	data.Title = bookmark.Title
	if data.Title == "" {
		data.Title = bookmark.Url
	}
	data.Url = bookmark.Url
	data.Hash = bookmark.Hash
	data.Timestamp = bookmark.Created
	b.Templates.Saved.Execute(w, r, data)
}

func (b Bookmarks) ingest(r *http.Request, owner, link string) (*models.Bookmark, error) {
	logger := loggercontext.Logger(r.Context())

	if !validations.IsURLValid(link) {
		return nil, errors.ErrInvalidUrl
	}

	page, err := b.Resolver.Resolve(link)
	if err != nil {
		return nil, errors.Public(err, "Could not fetch the submitted URL")
	}

	md, err := meta.Extract(page.Body, page.Url)
	if err != nil {
		// A page without a title is still worth keeping; the terminal URL
		// stands in for it.
		logger.Warnw("title extraction failed", "url", page.Url, "error", err)
		md.Title = ""
	}

	bookmark := &models.Bookmark{
		Url:     page.Url,
		Owner:   owner,
		Title:   md.Title,
		Hash:    keys.ContentKey(page.Url),
		Icon:    md.Icon,
		Created: time.Now().UnixMilli(),
	}
	if b.AliasEnabled {
		alias, err := keys.MintAlias()
		if err != nil {
			return nil, err
		}
		bookmark.Alias = &alias
	}

	if err := b.BookmarkModel.Insert(bookmark); err != nil {
		return nil, err
	}

	// The snapshot is a side artifact: a failed write is logged and the
	// insert above stands. There is no transactional link between the two.
	snapshot := &cache.Snapshot{
		IngestionId: uuid.NewString(),
		Url:         page.Url,
		StatusCode:  page.StatusCode,
		Status:      page.Status,
		Title:       md.Title,
		Icon:        md.Icon,
		Excerpt:     md.Excerpt,
		SiteName:    md.SiteName,
		ElapsedMs:   page.Elapsed.Milliseconds(),
		Timestamp:   bookmark.Created,
	}
	if err := b.Snapshots.Write(bookmark.Hash, snapshot); err != nil {
		logger.Warnw("writing metadata snapshot", "hash", bookmark.Hash, "error", err)
	}

	logger.Infow("bookmark saved", "url", page.Url, "hash", bookmark.Hash, "owner", owner)
	return bookmark, nil
}

// Display renders the paginated card or list view.
func (b Bookmarks) Display(w http.ResponseWriter, r *http.Request) {
	logger := loggercontext.Logger(r.Context())
	owner := usercontext.User(r.Context())

	showAll := r.FormValue("showAll") == "yes"
	limit := intParam(r, "limit", DefaultRecordCount)
	offset := intParam(r, "offset", 0)
	layout := ParseLayout(r.FormValue("format"))

	data, err := b.buildDisplay(owner, showAll, limit, offset, layout)
	if err != nil {
		logger.Errorw("building display", "owner", owner, "error", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	b.Templates.Display.Execute(w, r, data)
}

// BookmarkResponse is the JSON shape of one record.
type BookmarkResponse struct {
	Url     string  `json:"url"`
	Title   string  `json:"title"`
	Hash    string  `json:"hash"`
	Alias   *string `json:"alias,omitempty"`
	Icon    string  `json:"icon,omitempty"`
	Created int64   `json:"created"`
	ReadAt  *int64  `json:"readAt,omitempty"`
}

// ListAPI returns the owner's records as JSON, newest first.
func (b Bookmarks) ListAPI(w http.ResponseWriter, r *http.Request) {
	logger := loggercontext.Logger(r.Context())
	owner := usercontext.User(r.Context())

	unreadOnly := r.FormValue("unread") == "true"
	limit := intParam(r, "limit", 100)
	offset := intParam(r, "offset", 0)

	bookmarks, err := b.BookmarkModel.List(owner, unreadOnly, limit, offset)
	if err != nil {
		logger.Errorw("listing bookmarks", "owner", owner, "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Something went wrong",
		})
		return
	}

	var data struct {
		Bookmarks []BookmarkResponse `json:"bookmarks"`
	}
	data.Bookmarks = make([]BookmarkResponse, 0, len(bookmarks))
	for _, bm := range bookmarks {
		data.Bookmarks = append(data.Bookmarks, BookmarkResponse{
			Url:     bm.Url,
			Title:   bm.Title,
			Hash:    bm.Hash,
			Alias:   bm.Alias,
			Icon:    bm.Icon,
			Created: bm.Created,
			ReadAt:  bm.ReadAt,
		})
	}
	if err := writeResponse(w, data); err != nil {
		logger.Errorw("write response", "error", err)
	}
}

// CountAPI returns the owner's total record count.
func (b Bookmarks) CountAPI(w http.ResponseWriter, r *http.Request) {
	logger := loggercontext.Logger(r.Context())
	owner := usercontext.User(r.Context())

	count, err := b.BookmarkModel.Count(owner)
	if err != nil {
		logger.Errorw("counting bookmarks", "owner", owner, "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Something went wrong",
		})
		return
	}

	var data struct {
		Count int `json:"count"`
	}
	data.Count = count
	if err := writeResponse(w, data); err != nil {
		logger.Errorw("write response", "error", err)
	}
}

type ErrorResponse struct {
	Code    string `json:"errorCode"`
	Message string `json:"errorMessage"`
}

func writeResponse(w http.ResponseWriter, data any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, status int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func intParam(r *http.Request, name string, fallback int) int {
	value := r.FormValue(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
