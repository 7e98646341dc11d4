package services

import (
	"strings"
	"time"

	"github.com/amaumene/dvmovies/internal/boxoffice"
	"github.com/amaumene/dvmovies/internal/constants"
	"github.com/amaumene/dvmovies/internal/models"
)

// Classification partitions catalog movies by screening state. The three
// lists are disjoint.
type Classification struct {
	Onscreen []models.Movie
	Upcoming []models.Movie
	Ended    []models.Movie
}

// Classifier sorts movies into screening states by release date and the
// box-office snapshot.
type Classifier struct {
	Location *time.Location
	// Membership selects how a movie is matched against the snapshot:
	// constants.MembershipTitle or constants.MembershipLegacy.
	Membership string
}

// Classify compares each movie's release date with today's calendar date.
// Movies without a usable release date land in no bucket, as do movies
// released today that are not in the snapshot.
func (c Classifier) Classify(movies []models.CatalogMovie, snap *boxoffice.Snapshot, today time.Time) Classification {
	loc := c.location()
	day := calendarDay(today, loc)

	out := Classification{
		Onscreen: []models.Movie{},
		Upcoming: []models.Movie{},
		Ended:    []models.Movie{},
	}

	for _, cm := range movies {
		released, ok := cm.Movie.ReleaseDate(loc)
		if !ok {
			continue
		}

		switch {
		case released.After(day):
			out.Upcoming = append(out.Upcoming, cm.Movie)
		case c.IsShowing(cm, snap):
			out.Onscreen = append(out.Onscreen, cm.Movie)
		case released.Before(day):
			out.Ended = append(out.Ended, cm.Movie)
		}
	}
	return out
}

// IsShowing reports whether cm is listed in the snapshot. In legacy mode
// nothing is ever listed, so every past release counts as ended.
func (c Classifier) IsShowing(cm models.CatalogMovie, snap *boxoffice.Snapshot) bool {
	if c.Membership == constants.MembershipLegacy {
		return false
	}
	return snap.Contains(cm.Name) || snap.Contains(cm.Movie.Title)
}

func (c Classifier) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Today returns the current calendar day in the classifier's location.
func (c Classifier) Today() time.Time {
	return calendarDay(time.Now(), c.location())
}

func calendarDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// MatchName keeps the search hits whose dataset name is exactly title.
func MatchName(items []models.DataverseItem, title string) []models.DataverseItem {
	title = strings.TrimSpace(title)
	var out []models.DataverseItem
	for _, item := range items {
		if item.Name == title {
			out = append(out, item)
		}
	}
	return out
}
