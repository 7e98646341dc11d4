// Package constants defines application-wide constants and default values.
package constants

const (
	AppName    = "dvmovies"
	AppVersion = "1.0.0"

	// Default configuration values
	DefaultPort      = "8000"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
	DefaultTimezone  = "Asia/Seoul"

	// Upstream endpoints
	DefaultDataverseBaseURL = "https://snu.dataverse.ac.kr"
	DefaultDataverseSubtree = "movies"
	DefaultKOBISBaseURL     = "http://www.kobis.or.kr/kobisopenapi/webservice/rest"

	// Dataverse authentication header
	DataverseKeyHeader = "X-Dataverse-key"

	// Storage defaults
	DefaultDatabasePath = "./movies.db"
	DefaultCachePath    = "./registry.db"
	DefaultCacheSize    = 1000
	DefaultCacheTTL     = 24 // hours
)

// Membership modes for deciding whether a past release is still on screen.
const (
	MembershipTitle  = "title"
	MembershipLegacy = "legacy"
)

// Response messages kept stable for API clients.
const (
	MsgNoSearchResults   = "no search results"
	MsgAlreadyRegistered = "Movie already registered"
	MsgAllDeleted        = "All records deleted"
)
