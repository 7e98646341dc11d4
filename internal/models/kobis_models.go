package models

import "time"

// KOBISMovieInfoResponse is the body of searchMovieInfo.json.
// On failure KOBIS answers 200 with FaultInfo set instead of MovieInfoResult.
type KOBISMovieInfoResponse struct {
	MovieInfoResult *KOBISMovieInfoResult `json:"movieInfoResult"`
	FaultInfo       *KOBISFault           `json:"faultInfo"`
}

type KOBISMovieInfoResult struct {
	MovieInfo KOBISMovieInfo `json:"movieInfo"`
	Source    string         `json:"source"`
}

type KOBISMovieInfo struct {
	MovieCd   string `json:"movieCd"`
	MovieNm   string `json:"movieNm"`
	MovieNmEn string `json:"movieNmEn"`
	ShowTm    string `json:"showTm"`
	OpenDt    string `json:"openDt"`
	PrdtYear  string `json:"prdtYear"`
}

type KOBISFault struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

// RegistryMovie is the subset of registry data used for cross-referencing.
type RegistryMovie struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	NameEng   string    `json:"nameEng"`
	ShowTime  string    `json:"showTime"`
	OpenDate  string    `json:"openDate"`
	FetchedAt time.Time `json:"fetchedAt"`
}
