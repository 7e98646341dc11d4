package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure Go driver

	apperrors "github.com/amaumene/dvmovies/internal/errors"
	"github.com/amaumene/dvmovies/internal/models"
)

const movieColumns = `id, title, title_eng, genre, synopsis, open_date, running_time_minute,
	actors, directors, producer, distributor, keywords, poster_url, vod_url`

// SQLiteStore implements MovieStore on a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the movie database at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), dbDirMode); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS movies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL DEFAULT '',
		title_eng TEXT NOT NULL DEFAULT '',
		genre TEXT NOT NULL DEFAULT '[]',
		synopsis TEXT NOT NULL DEFAULT '',
		open_date TEXT NOT NULL DEFAULT '',
		running_time_minute TEXT NOT NULL DEFAULT '',
		actors TEXT NOT NULL DEFAULT '',
		directors TEXT NOT NULL DEFAULT '',
		producer TEXT NOT NULL DEFAULT '',
		distributor TEXT NOT NULL DEFAULT '',
		keywords TEXT NOT NULL DEFAULT '[]',
		poster_url TEXT NOT NULL DEFAULT '',
		vod_url TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_movies_identity
		ON movies(title, title_eng, open_date, running_time_minute);
	CREATE INDEX IF NOT EXISTS idx_movies_open_date ON movies(open_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SearchMovies matches query as a substring of the text columns.
func (s *SQLiteStore) SearchMovies(ctx context.Context, query string) ([]models.StoredMovie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.queryMovies(ctx, "SELECT "+movieColumns+" FROM movies ORDER BY id")
	}

	pattern := "%" + escapeLike(query) + "%"
	stmt := "SELECT " + movieColumns + ` FROM movies
		WHERE title LIKE ?1 ESCAPE '\' OR title_eng LIKE ?1 ESCAPE '\'
			OR synopsis LIKE ?1 ESCAPE '\' OR actors LIKE ?1 ESCAPE '\'
			OR directors LIKE ?1 ESCAPE '\' OR keywords LIKE ?1 ESCAPE '\'
		ORDER BY id`
	return s.queryMovies(ctx, stmt, pattern)
}

func (s *SQLiteStore) MovieExists(ctx context.Context, key models.MovieKey) (bool, error) {
	return movieExists(ctx, s.db, key)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func movieExists(ctx context.Context, q queryRower, key models.MovieKey) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM movies
		WHERE title = ? AND title_eng = ? AND open_date = ? AND running_time_minute = ? LIMIT 1`,
		key.Title, key.TitleEng, key.OpenDate, key.RunningTimeMinute).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check movie: %w", err)
	}
	return true, nil
}

// InsertMovies stores movies in one transaction. A movie already stored, or
// repeated within the batch, rolls the whole batch back.
func (s *SQLiteStore) InsertMovies(ctx context.Context, movies []models.Movie) ([]models.StoredMovie, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	seen := make(map[models.MovieKey]bool, len(movies))
	stored := make([]models.StoredMovie, 0, len(movies))

	for _, movie := range movies {
		key := movie.Key()
		exists, err := movieExists(ctx, tx, key)
		if err != nil {
			return nil, err
		}
		if exists || seen[key] {
			return nil, apperrors.NewDuplicateError(movie.Title, movie.OpenDate)
		}
		seen[key] = true

		genre, err := encodeList(movie.Genre)
		if err != nil {
			return nil, err
		}
		keywords, err := encodeList(movie.Keywords)
		if err != nil {
			return nil, err
		}

		res, err := tx.ExecContext(ctx, `INSERT INTO movies (
			title, title_eng, genre, synopsis, open_date, running_time_minute,
			actors, directors, producer, distributor, keywords, poster_url, vod_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			movie.Title, movie.TitleEng, genre, movie.Synopsis, movie.OpenDate, movie.RunningTimeMinute,
			movie.Actors, movie.Directors, movie.Producer, movie.Distributor, keywords, movie.PosterURL, movie.VodURL)
		if err != nil {
			return nil, fmt.Errorf("failed to insert movie %q: %w", movie.Title, err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read movie id: %w", err)
		}
		stored = append(stored, models.StoredMovie{ID: id, Movie: movie})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit movies: %w", err)
	}
	return stored, nil
}

// FilterByOpenYear uses the year prefix of open_date. Movies without a
// release date are only returned when both bounds are nil.
func (s *SQLiteStore) FilterByOpenYear(ctx context.Context, from, to *int) ([]models.StoredMovie, error) {
	if from == nil && to == nil {
		return s.queryMovies(ctx, "SELECT "+movieColumns+" FROM movies ORDER BY id")
	}

	conds := []string{"open_date != ''"}
	var args []any
	if from != nil {
		conds = append(conds, "CAST(substr(open_date, 1, 4) AS INTEGER) >= ?")
		args = append(args, *from)
	}
	if to != nil {
		conds = append(conds, "CAST(substr(open_date, 1, 4) AS INTEGER) <= ?")
		args = append(args, *to)
	}

	stmt := "SELECT " + movieColumns + " FROM movies WHERE " + strings.Join(conds, " AND ") + " ORDER BY open_date, id"
	return s.queryMovies(ctx, stmt, args...)
}

func (s *SQLiteStore) FilterByGenres(ctx context.Context, genres []string) ([]models.StoredMovie, error) {
	var wanted []any
	for _, g := range genres {
		if g = strings.TrimSpace(g); g != "" {
			wanted = append(wanted, g)
		}
	}
	if len(wanted) == 0 {
		return s.queryMovies(ctx, "SELECT "+movieColumns+" FROM movies ORDER BY id")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(wanted)), ",")
	stmt := "SELECT " + movieColumns + ` FROM movies
		WHERE EXISTS (SELECT 1 FROM json_each(movies.genre) WHERE json_each.value IN (` + placeholders + `))
		ORDER BY id`
	return s.queryMovies(ctx, stmt, wanted...)
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM movies")
	if err != nil {
		return 0, fmt.Errorf("failed to delete movies: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted movies: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) queryMovies(ctx context.Context, query string, args ...any) ([]models.StoredMovie, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	movies := []models.StoredMovie{}
	for rows.Next() {
		var (
			m              models.StoredMovie
			genre, keyword string
		)
		if err := rows.Scan(&m.ID, &m.Movie.Title, &m.Movie.TitleEng, &genre, &m.Movie.Synopsis,
			&m.Movie.OpenDate, &m.Movie.RunningTimeMinute, &m.Movie.Actors, &m.Movie.Directors,
			&m.Movie.Producer, &m.Movie.Distributor, &keyword, &m.Movie.PosterURL, &m.Movie.VodURL); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		if m.Movie.Genre, err = decodeList(genre); err != nil {
			return nil, err
		}
		if m.Movie.Keywords, err = decodeList(keyword); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movies: %w", err)
	}
	return movies, nil
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(data), nil
}

func decodeList(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode list column: %w", err)
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
