package services

import (
	"encoding/json"
	"strings"

	apperrors "github.com/amaumene/dvmovies/internal/errors"
	"github.com/amaumene/dvmovies/internal/metrics"
	"github.com/amaumene/dvmovies/internal/models"
	"github.com/amaumene/dvmovies/pkg/logger"
)

// ParseDescription decodes a Dataverse dataset description into a movie.
//
// Descriptions are written by two ingestion paths: one stores strict JSON,
// the other a Python literal (single quotes, True/None). Strict JSON is tried
// first, then the relaxed form. Missing keys are defaulted, so a partial
// record is still a valid movie. A blank description yields
// errors.ErrEmptyDescription; anything undecodable a PARSE_FAILURE.
func ParseDescription(raw string) (models.Movie, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.Movie{}, apperrors.ErrEmptyDescription
	}

	movie, strictErr := decodeMovieObject(trimmed)
	if strictErr == nil {
		return movie, nil
	}

	converted, err := relaxedToJSON(trimmed)
	if err != nil {
		return models.Movie{}, apperrors.NewParseError("description is neither JSON nor a literal", err)
	}

	movie, err = decodeMovieObject(converted)
	if err != nil {
		return models.Movie{}, apperrors.NewParseError("failed to decode description", err)
	}
	return movie, nil
}

func decodeMovieObject(doc string) (models.Movie, error) {
	if !strings.HasPrefix(doc, "{") {
		return models.Movie{}, apperrors.NewParseError("description is not an object", nil)
	}
	var movie models.Movie
	if err := json.Unmarshal([]byte(doc), &movie); err != nil {
		return models.Movie{}, err
	}
	return movie, nil
}

// ParseItems parses every item of a search page, skipping datasets whose
// description is empty or malformed.
func ParseItems(items []models.DataverseItem, log logger.Logger) []models.CatalogMovie {
	movies := make([]models.CatalogMovie, 0, len(items))
	for _, item := range items {
		movie, err := ParseDescription(item.Description)
		if err != nil {
			metrics.AddSkippedDescriptions(1)
			if log != nil && err != apperrors.ErrEmptyDescription {
				log.Debugf("[Description] skipping %s (%s): %v", item.GlobalID, item.Name, err)
			}
			continue
		}
		movies = append(movies, models.CatalogMovie{
			Name:     item.Name,
			GlobalID: item.GlobalID,
			Movie:    movie,
		})
	}
	return movies
}

// Records strips the dataset wrapper from parsed catalog movies.
func Records(movies []models.CatalogMovie) []models.Movie {
	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Movie)
	}
	return out
}
