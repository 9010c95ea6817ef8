package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gamma-omg/lexi-explore/internal/services/lessons/internal/model"
	"github.com/lib/pq"
)

const errInvalidText pq.ErrorCode = "22P02"

const lessonColumns = "id, title, description, video_url, embed_link, pdf_urls, created_by, created_at, updated_at"

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
}

func NewPostgresDB(cfg PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// PostgresStore keeps lessons in the lessons table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLesson(row rowScanner) (model.Lesson, error) {
	var (
		l       model.Lesson
		desc    sql.NullString
		video   sql.NullString
		embed   sql.NullString
		pdfURLs pq.StringArray
	)

	err := row.Scan(&l.ID, &l.Title, &desc, &video, &embed, &pdfURLs, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return model.Lesson{}, err
	}

	l.Description = nullable(desc)
	l.VideoURL = nullable(video)
	l.EmbedLink = nullable(embed)
	l.PDFURLs = []string(pdfURLs)
	return l, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func (s *PostgresStore) ListLessons(ctx context.Context) ([]model.Lesson, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+lessonColumns+" FROM lessons ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []model.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	return lessons, nil
}

func (s *PostgresStore) GetLesson(ctx context.Context, id string) (model.Lesson, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+lessonColumns+" FROM lessons WHERE id = $1", id)

	l, err := scanLesson(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isPqErr(err, errInvalidText) {
			return model.Lesson{}, ErrNotFound
		}

		return model.Lesson{}, fmt.Errorf("get lesson: %w", err)
	}

	return l, nil
}

func (s *PostgresStore) InsertLesson(ctx context.Context, r InsertLessonRequest) (model.Lesson, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO lessons (title, description, video_url, embed_link, pdf_urls, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+lessonColumns,
		r.Title, r.Description, r.VideoURL, r.EmbedLink, pq.StringArray(r.PDFURLs), r.CreatedBy)

	l, err := scanLesson(row)
	if err != nil {
		return model.Lesson{}, fmt.Errorf("insert lesson: %w", err)
	}

	return l, nil
}

func (s *PostgresStore) UpdateLesson(ctx context.Context, r UpdateLessonRequest) (model.Lesson, error) {
	var pdfURLs any
	if r.PDFURLs != nil {
		pdfURLs = pq.StringArray(*r.PDFURLs)
	}

	row := s.db.QueryRowContext(ctx,
		`UPDATE lessons SET
			title       = COALESCE($2, title),
			description = CASE WHEN $3::text IS NULL THEN description ELSE NULLIF($3, '') END,
			video_url   = CASE WHEN $4::text IS NULL THEN video_url ELSE NULLIF($4, '') END,
			embed_link  = CASE WHEN $5::text IS NULL THEN embed_link ELSE NULLIF($5, '') END,
			pdf_urls    = CASE WHEN $6::boolean THEN $7::text[] ELSE pdf_urls END,
			updated_at  = now()
		WHERE id = $1
		RETURNING `+lessonColumns,
		r.ID, r.Title, r.Description, r.VideoURL, r.EmbedLink, r.PDFURLs != nil, pdfURLs)

	l, err := scanLesson(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isPqErr(err, errInvalidText) {
			return model.Lesson{}, ErrNotFound
		}

		return model.Lesson{}, fmt.Errorf("update lesson: %w", err)
	}

	return l, nil
}

func (s *PostgresStore) DeleteLesson(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM lessons WHERE id = $1", id)
	if err != nil {
		if isPqErr(err, errInvalidText) {
			return ErrNotFound
		}

		return fmt.Errorf("delete lesson: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isPqErr(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code == code
}
