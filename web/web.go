// Package web embeds the dashboard template and static assets.
package web

import "embed"

// Assets holds the dashboard template plus the stylesheet and scripts.
// Subdirectory globs are explicit because //go:embed does not recurse.
//
//go:embed templates/*.html static/css/*.css static/js/*.js
var Assets embed.FS
