// Package levels embeds the bundled level files.
package levels

import "embed"

//go:embed *.yaml *.tmx
var FS embed.FS
