// Package constants defines numerical limits used by the catalog walk.
package constants

const (
	// Page sizes for the Dataverse search API
	SearchPageSize = 10
	BulkPageSize   = 1000

	// Outbound rate limiting, shared by all upstream clients
	UpstreamRateLimit = 10 // requests per second
	UpstreamRateBurst = 5

	// Rows above the data table in a KOBIS daily box-office export
	// (six banner rows plus the column header)
	BoxOfficeHeaderRows = 7
	// Zero-based column holding the movie title
	BoxOfficeTitleColumn = 1
)
