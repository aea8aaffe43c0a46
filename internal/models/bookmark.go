package models

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/balain/bkmrkr/internal/errors"
	"github.com/balain/bkmrkr/internal/keys"
)

// Bookmark is one ingested URL for one user. Timestamps are epoch
// milliseconds; ReadAt stays nil until the record is visited through the
// redirector and holds only the most recent visit after that.
type Bookmark struct {
	Url     string
	Owner   string
	Title   string
	Hash    string
	Alias   *string
	Icon    string
	Created int64
	ReadAt  *int64
}

type BookmarkModel struct {
	DB *sql.DB
	// Now is swappable for tests; nil means time.Now.
	Now func() time.Time
}

func (model *BookmarkModel) now() time.Time {
	if model.Now != nil {
		return model.Now()
	}
	return time.Now()
}

// Insert appends the record. Nothing checks for a pre-existing row with the
// same owner and hash: ingesting one URL twice creates two rows.
func (model *BookmarkModel) Insert(bookmark *Bookmark) error {
	_, err := model.DB.Exec(`
		INSERT INTO bookmarks (url, owner, title, hash, alias, icon, created, read_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL)`,
		bookmark.Url, bookmark.Owner, bookmark.Title, bookmark.Hash,
		bookmark.Alias, bookmark.Icon, bookmark.Created)
	if err != nil {
		return fmt.Errorf("bookmark insert: %w", err)
	}
	return nil
}

// MarkRead stamps read_at on every row matching the key and reports how many
// rows were touched. Zero is not an error; the caller decides what a miss
// means.
func (model *BookmarkModel) MarkRead(key string, kind keys.Kind) (int64, error) {
	result, err := model.DB.Exec(
		fmt.Sprintf(`UPDATE bookmarks SET read_at = ? WHERE %s = ?`, keyColumn(kind)),
		model.now().UnixMilli(), key)
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark read rows affected: %w", err)
	}
	return affected, nil
}

// FindUrl resolves a lookup key to the stored URL. The lookup is global, not
// owner-scoped: redirector routes sit behind authentication but any
// authenticated session can follow any key it knows.
func (model *BookmarkModel) FindUrl(key string, kind keys.Kind) (string, error) {
	row := model.DB.QueryRow(
		fmt.Sprintf(`SELECT url FROM bookmarks WHERE %s = ? LIMIT 1`, keyColumn(kind)),
		key)
	var url string
	if err := row.Scan(&url); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errors.ErrNotFound
		}
		return "", fmt.Errorf("find url: %w", err)
	}
	return url, nil
}

// List returns the owner's records newest first. unreadOnly keeps only rows
// that were never visited through the redirector.
func (model *BookmarkModel) List(owner string, unreadOnly bool, limit, offset int) ([]Bookmark, error) {
	query := `
		SELECT url, owner, title, hash, alias, icon, created, read_at
		FROM bookmarks
		WHERE owner = ?`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += `
		ORDER BY created DESC
		LIMIT ? OFFSET ?`

	rows, err := model.DB.Query(query, owner, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks by owner: %w", err)
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		var bookmark Bookmark
		err := rows.Scan(&bookmark.Url, &bookmark.Owner, &bookmark.Title,
			&bookmark.Hash, &bookmark.Alias, &bookmark.Icon,
			&bookmark.Created, &bookmark.ReadAt)
		if err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, bookmark)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating rows: %w", rows.Err())
	}
	return bookmarks, nil
}

func (model *BookmarkModel) Count(owner string) (int, error) {
	row := model.DB.QueryRow(`SELECT COUNT(*) FROM bookmarks WHERE owner = ?`, owner)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookmarks: %w", err)
	}
	return count, nil
}

func keyColumn(kind keys.Kind) string {
	if kind == keys.KindAlias {
		return "alias"
	}
	return "hash"
}
