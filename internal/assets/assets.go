package assets

import "embed"

//go:embed web/*.html
var WebFS embed.FS
