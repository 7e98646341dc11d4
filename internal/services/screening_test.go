package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/amaumene/dvmovies/internal/boxoffice"
	"github.com/amaumene/dvmovies/internal/constants"
	"github.com/amaumene/dvmovies/internal/models"
)

func catalogMovie(name, openDate string) models.CatalogMovie {
	return models.CatalogMovie{
		Name:  name,
		Movie: models.Movie{Title: name, OpenDate: openDate},
	}
}

func movieTitles(movies []models.Movie) []string {
	out := []string{}
	for _, m := range movies {
		out = append(out, m.Title)
	}
	return out
}

func TestClassify(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Fatal(err)
	}
	today := time.Date(2024, 1, 1, 9, 30, 0, 0, seoul)

	movies := []models.CatalogMovie{
		catalogMovie("X", "2099.01.01"),
		catalogMovie("Y", "2000.01.01"),
		catalogMovie("Z", ""),
		catalogMovie("Showing", "2023.12.20"),
		catalogMovie("Today", "2024.01.01"),
		catalogMovie("Bad", "01/01/2000"),
	}
	snap := boxoffice.NewSnapshot([]string{"Showing"}, "test", today)

	tests := []struct {
		name       string
		membership string
		want       Classification
	}{
		{
			name:       "title membership",
			membership: constants.MembershipTitle,
			want: Classification{
				Onscreen: []models.Movie{movies[3].Movie},
				Upcoming: []models.Movie{movies[0].Movie},
				Ended:    []models.Movie{movies[1].Movie},
			},
		},
		{
			name:       "legacy membership",
			membership: constants.MembershipLegacy,
			want: Classification{
				Onscreen: []models.Movie{},
				Upcoming: []models.Movie{movies[0].Movie},
				Ended:    []models.Movie{movies[1].Movie, movies[3].Movie},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classifier{Location: seoul, Membership: tt.membership}
			got := c.Classify(movies, snap, today)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyUsesCalendarDayInLocation(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Fatal(err)
	}
	// 2023-12-31 20:00 UTC is already 2024-01-01 in Seoul
	now := time.Date(2023, 12, 31, 20, 0, 0, 0, time.UTC)
	movies := []models.CatalogMovie{catalogMovie("NewYear", "2024.01.01")}

	seoulResult := Classifier{Location: seoul}.Classify(movies, nil, now)
	assert.Empty(t, seoulResult.Upcoming)

	utcResult := Classifier{Location: time.UTC}.Classify(movies, nil, now)
	assert.Equal(t, []string{"NewYear"}, movieTitles(utcResult.Upcoming))
}

func TestClassifyBucketsAreDisjoint(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	var movies []models.CatalogMovie
	for _, d := range []string{"2024.06.14", "2024.06.15", "2024.06.16", "1999.12.31", ""} {
		movies = append(movies, catalogMovie("m"+d, d))
	}
	snap := boxoffice.NewSnapshot([]string{"m2024.06.14", "m2024.06.16"}, "", today)

	got := Classifier{}.Classify(movies, snap, today)

	seen := map[string]int{}
	for _, list := range [][]models.Movie{got.Onscreen, got.Upcoming, got.Ended} {
		for _, m := range list {
			seen[m.Title]++
		}
	}
	for title, n := range seen {
		assert.Equal(t, 1, n, title)
	}
	assert.Equal(t, []string{"m2024.06.14"}, movieTitles(got.Onscreen))
	assert.Equal(t, []string{"m2024.06.16"}, movieTitles(got.Upcoming))
	assert.Equal(t, []string{"m1999.12.31"}, movieTitles(got.Ended))
}

func TestMatchName(t *testing.T) {
	items := []models.DataverseItem{
		{Name: "엘리멘탈"},
		{Name: "엘리멘탈 (2023)"},
		{Name: "엘리멘탈"},
	}
	assert.Len(t, MatchName(items, " 엘리멘탈 "), 2)
	assert.Empty(t, MatchName(items, "인어공주"))
}
