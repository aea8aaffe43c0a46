package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/balain/bkmrkr/internal/auth/context/loggercontext"
	"github.com/balain/bkmrkr/internal/errors"
	"github.com/balain/bkmrkr/internal/keys"
	"github.com/balain/bkmrkr/internal/models"
)

// Redirector resolves a lookup key (content hash or short alias) to the
// stored URL, records the visit, and sends the browser on its way.
type Redirector struct {
	BookmarkModel *models.BookmarkModel
}

// Visit handles GET /n/{key} and GET /bookmarks/visit/{key}. The key kind is
// dispatched on length alone, so both routes accept both kinds.
//
// The read-state update deliberately happens before the URL lookup: the
// visit is recorded even when the redirect response never reaches the
// client.
func (red Redirector) Visit(w http.ResponseWriter, r *http.Request) {
	logger := loggercontext.Logger(r.Context())
	key := chi.URLParam(r, "key")

	kind, err := keys.KindOf(key)
	if err != nil {
		logger.Errorw("invalid lookup key", "key", key)
		http.Error(w, "Invalid lookup key", http.StatusBadRequest)
		return
	}

	affected, err := red.BookmarkModel.MarkRead(key, kind)
	if err != nil {
		logger.Errorw("marking bookmark read", "key", key, "error", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		logger.Infow("lookup key matched no bookmark", "key", key)
	}

	url, err := red.BookmarkModel.FindUrl(key, kind)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			http.Error(w, "Bookmark not found", http.StatusNotFound)
			return
		}
		logger.Errorw("resolving bookmark url", "key", key, "error", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}
