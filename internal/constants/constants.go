// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Face matching constants
const (
	// DefaultMatchTolerance is the default maximum cosine distance for
	// accepting a face as a roster match. Lower values = stricter matching.
	DefaultMatchTolerance = 0.55

	// HNSWRosterCutoff is the roster size above which the matcher builds
	// an HNSW index instead of scanning linearly.
	HNSWRosterCutoff = 256

	// HNSWMaxNeighbors is the M parameter for the HNSW graph.
	HNSWMaxNeighbors = 16
)

// Frame processing constants
const (
	// MaxFrameSize is the maximum dimension (width or height) a captured
	// frame is downscaled to before it is sent to the encoder.
	MaxFrameSize = 480
)

// Kiosk status strings. These are part of the wire contract with the
// browser page and must not change.
const (
	StatusScanning = "Scanning..."
	StatusUnknown  = "Unknown Student"
	StatusError    = "Error"
)

// Ledger file constants
const (
	// LedgerHeader is the literal first line of the attendance file.
	LedgerHeader = "Name,Date,Time"

	// LedgerDateFormat is the day-granularity key format for records.
	LedgerDateFormat = "2006-01-02"

	// LedgerTimeFormat is the time-of-day format for records.
	LedgerTimeFormat = "15:04:05"
)

// RosterImageExtensions lists the file extensions the roster loader
// recognizes as enrollment images (lower-case, with dot).
var RosterImageExtensions = []string{".jpg", ".jpeg", ".png"}
