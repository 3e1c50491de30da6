// Package static embeds the kiosk browser page.
package static

import (
	_ "embed"
)

//go:embed kiosk/index.html
var indexHTML []byte

// IndexHTML returns the kiosk page served at the root path.
func IndexHTML() []byte {
	return indexHTML
}
