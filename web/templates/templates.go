package templates

import "embed"

//go:embed *.gohtml bookmarks/*.gohtml
var FS embed.FS
