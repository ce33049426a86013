// Package scripts holds the Risor report scripts shipped with docscan.
package scripts

import "embed"

// FS contains every bundled report script, rooted at report/.
//
//go:embed report/*.risor
var FS embed.FS
