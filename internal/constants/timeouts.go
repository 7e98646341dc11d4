// Package constants defines timeout values used throughout the application.
package constants

import "time"

const (
	// Timeout applied to every outbound request (Dataverse and KOBIS)
	UpstreamTimeout = 5 * time.Second

	// HTTP server timeouts
	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 15 * time.Second

	// Debounce for box-office snapshot file events
	SnapshotReloadDelay = 500 * time.Millisecond
)
