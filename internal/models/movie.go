// Package models defines the movie record and upstream payload structures.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// OpenDateLayout is the openDate format used in Dataverse descriptions.
const OpenDateLayout = "2006.01.02"

// Movie is the canonical record decoded from a Dataverse description and
// stored in the local movies table.
type Movie struct {
	Title             string   `json:"title"`
	TitleEng          string   `json:"titleEng"`
	Genre             []string `json:"genre"`
	Synopsis          string   `json:"synopsis"`
	OpenDate          string   `json:"openDate"`
	RunningTimeMinute string   `json:"runningTimeMinute"`
	Actors            string   `json:"actors"`
	Directors         string   `json:"directors"`
	Producer          string   `json:"producer"`
	Distributor       string   `json:"distributor"`
	Keywords          []string `json:"keywords"`
	PosterURL         string   `json:"posterUrl"`
	VodURL            string   `json:"vodUrl"`
}

// MovieKey identifies a movie for de-duplication.
type MovieKey struct {
	Title             string
	TitleEng          string
	OpenDate          string
	RunningTimeMinute string
}

// Key returns the de-duplication key of m.
func (m Movie) Key() MovieKey {
	return MovieKey{
		Title:             m.Title,
		TitleEng:          m.TitleEng,
		OpenDate:          m.OpenDate,
		RunningTimeMinute: m.RunningTimeMinute,
	}
}

// ReleaseDate parses OpenDate as a calendar date in loc.
// ok is false when the date is unknown or malformed.
func (m Movie) ReleaseDate(loc *time.Location) (date time.Time, ok bool) {
	if m.OpenDate == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(OpenDateLayout, m.OpenDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// movieJSON mirrors Movie with lenient field types; upstream descriptions
// mix strings, numbers and nulls for the same key.
type movieJSON struct {
	Title             flexString  `json:"title"`
	TitleEng          flexString  `json:"titleEng"`
	Genre             flexStrings `json:"genre"`
	Synopsis          flexString  `json:"synopsis"`
	OpenDate          flexString  `json:"openDate"`
	RunningTimeMinute flexString  `json:"runningTimeMinute"`
	Actors            flexString  `json:"actors"`
	Directors         flexString  `json:"directors"`
	Producer          flexString  `json:"producer"`
	Distributor       flexString  `json:"distributor"`
	Keywords          flexStrings `json:"keywords"`
	PosterURL         flexString  `json:"posterUrl"`
	VodURL            flexString  `json:"vodUrl"`
}

// UnmarshalJSON decodes a movie, defaulting absent keys to "" or an empty list.
func (m *Movie) UnmarshalJSON(data []byte) error {
	var raw movieJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = Movie{
		Title:             string(raw.Title),
		TitleEng:          string(raw.TitleEng),
		Genre:             nonNil(raw.Genre),
		Synopsis:          string(raw.Synopsis),
		OpenDate:          strings.TrimSpace(string(raw.OpenDate)),
		RunningTimeMinute: strings.TrimSpace(string(raw.RunningTimeMinute)),
		Actors:            string(raw.Actors),
		Directors:         string(raw.Directors),
		Producer:          string(raw.Producer),
		Distributor:       string(raw.Distributor),
		Keywords:          nonNil(raw.Keywords),
		PosterURL:         string(raw.PosterURL),
		VodURL:            string(raw.VodURL),
	}
	return nil
}

// MarshalJSON always renders list fields as arrays, never null.
func (m Movie) MarshalJSON() ([]byte, error) {
	type plain Movie
	out := plain(m)
	out.Genre = nonNil(m.Genre)
	out.Keywords = nonNil(m.Keywords)
	return json.Marshal(out)
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// flexString accepts a JSON string, number, bool or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*f = flexString(strconv.FormatBool(b))
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*f = flexString(strconv.FormatFloat(n, 'f', -1, 64))
	}
	return nil
}

// flexStrings accepts a list of scalars or a single scalar.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = nil
		return nil
	}

	if data[0] == '[' {
		var items []flexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, string(item))
		}
		*f = out
		return nil
	}

	var single flexString
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*f = nil
		return nil
	}
	*f = []string{string(single)}
	return nil
}

// CatalogMovie pairs a parsed record with the Dataverse dataset it came from.
type CatalogMovie struct {
	Name     string
	GlobalID string
	Movie    Movie
}

// StoredMovie is a movie row of the local table.
type StoredMovie struct {
	ID    int64
	Movie Movie
}

// MarshalJSON renders the row as the movie object with a leading "id" key.
func (s StoredMovie) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(s.Movie)
	if err != nil {
		return nil, err
	}
	out := []byte(`{"id":` + strconv.FormatInt(s.ID, 10) + `,`)
	return append(out, body[1:]...), nil
}
