package models

// DataverseSearchResponse is the envelope of GET /api/search.
type DataverseSearchResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message,omitempty"`
	Data    DataverseSearchData `json:"data"`
}

type DataverseSearchData struct {
	Q               string          `json:"q"`
	TotalCount      int             `json:"total_count"`
	Start           int             `json:"start"`
	CountInResponse int             `json:"count_in_response"`
	Items           []DataverseItem `json:"items"`
}

// DataverseItem is one search hit. Description holds the movie record as an
// encoded document, see services.ParseDescription.
type DataverseItem struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	GlobalID    string `json:"global_id"`
	Description string `json:"description"`
	PublishedAt string `json:"published_at"`
}
