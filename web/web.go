// Package web embeds the static chat UI.
package web

import "embed"

//go:embed index.html
var FS embed.FS
