// Package web embeds the portal templates.
package web

import "embed"

//go:embed templates
var Templates embed.FS
