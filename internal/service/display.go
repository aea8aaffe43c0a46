package service

import (
	"fmt"
	"time"

	"github.com/balain/bkmrkr/internal/validations"
)

// DefaultRecordCount is the page size used when the request does not name
// one; pagination links always advance by this amount.
const DefaultRecordCount = 20

const (
	LayoutCard = "card"
	LayoutList = "list"
)

// ParseLayout normalizes the format query parameter; anything but "list"
// renders as cards.
func ParseLayout(format string) string {
	if format == LayoutList {
		return LayoutList
	}
	return LayoutCard
}

// DisplayEntry is one rendered bookmark row.
type DisplayEntry struct {
	Title     string
	Host      string
	VisitPath string
	Icon      string
	Created   string
	Read      string
	IsRead    bool
}

// DisplayData feeds the display template: entries plus the pagination and
// toggle links that keep filter, offset and layout consistent across clicks.
type DisplayData struct {
	Layout            string
	ShowAll           bool
	Offset            int
	WindowEnd         int
	Entries           []DisplayEntry
	HasPrev           bool
	FirstPageQuery    string
	NextPageQuery     string
	ToggleQuery       string
	FilterToggleQuery string
}

func (b Bookmarks) buildDisplay(owner string, showAll bool, limit, offset int, layout string) (*DisplayData, error) {
	bookmarks, err := b.BookmarkModel.List(owner, !showAll, limit, offset)
	if err != nil {
		return nil, err
	}

	data := &DisplayData{
		Layout:            layout,
		ShowAll:           showAll,
		Offset:            offset,
		WindowEnd:         offset + DefaultRecordCount,
		HasPrev:           offset > 0,
		FirstPageQuery:    displayQuery(layout, 0, showAll),
		NextPageQuery:     displayQuery(layout, offset+DefaultRecordCount, showAll),
		ToggleQuery:       displayQuery(toggleLayout(layout), offset, showAll),
		FilterToggleQuery: displayQuery(layout, offset, !showAll),
	}

	for _, bm := range bookmarks {
		entry := DisplayEntry{
			Title:     bm.Title,
			Host:      validations.ExtractHostname(bm.Url),
			VisitPath: visitPath(bm.Alias, bm.Hash),
			Icon:      bm.Icon,
			Created:   b.formatTimestamp(bm.Created),
			IsRead:    bm.ReadAt != nil,
		}
		if entry.Title == "" {
			entry.Title = bm.Url
		}
		if bm.ReadAt != nil {
			entry.Read = b.formatTimestamp(*bm.ReadAt)
		}
		data.Entries = append(data.Entries, entry)
	}
	return data, nil
}

// visitPath prefers the short alias route and falls back to the hash route
// for rows minted without an alias.
func visitPath(alias *string, hash string) string {
	if alias != nil && *alias != "" {
		return "/n/" + *alias
	}
	return "/bookmarks/visit/" + hash
}

// formatTimestamp renders epoch milliseconds as month/day inside the
// reference year and as an en-US locale date everywhere else.
func (b Bookmarks) formatTimestamp(ms int64) string {
	t := time.UnixMilli(ms)
	if t.Year() == b.ReferenceYear {
		return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
	}
	return t.Format("1/2/2006")
}

func toggleLayout(layout string) string {
	if layout == LayoutCard {
		return LayoutList
	}
	return LayoutCard
}

func displayQuery(layout string, offset int, showAll bool) string {
	flag := "no"
	if showAll {
		flag = "yes"
	}
	return fmt.Sprintf("?format=%s&offset=%d&showAll=%s", layout, offset, flag)
}
