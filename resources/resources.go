// Package resources embeds the ordered migration sequence. File names are
// timestamp-prefixed; the runner applies them strictly in that order.
package resources

import "embed"

//go:embed migrations
var FS embed.FS
