package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PostgresConfig struct {
	User     string
	Password string
	DB       string
}

// Postgres is a running throwaway database.
type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string

	cont testcontainers.Container
}

func StartPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     cfg.User,
			"POSTGRES_PASSWORD": cfg.Password,
			"POSTGRES_DB":       cfg.DB,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	cont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	host, err := cont.Host(ctx)
	if err != nil {
		_ = cont.Terminate(ctx)
		return nil, fmt.Errorf("get host: %w", err)
	}

	port, err := cont.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = cont.Terminate(ctx)
		return nil, fmt.Errorf("get port: %w", err)
	}

	return &Postgres{
		Host:     host,
		Port:     port.Port(),
		User:     cfg.User,
		Password: cfg.Password,
		DB:       cfg.DB,
		cont:     cont,
	}, nil
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.DB)
}

func (p *Postgres) Open() (*sql.DB, error) {
	db, err := sql.Open("postgres", p.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

func (p *Postgres) Terminate() {
	_ = p.cont.Terminate(context.Background())
}

// RunMigrations drops everything the migrations in folder created and applies
// them again, leaving an empty schema.
func RunMigrations(t *testing.T, db *sql.DB, folder string) {
	t.Helper()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	require.NoError(t, err, "get postgres driver")

	migrator, err := migrate.NewWithDatabaseInstance("file://"+folder, "test", driver)
	require.NoError(t, err, "create migrator")

	if err := migrator.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("failed to drop existing db objects: %v", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("failed to run migrations: %v", err)
	}
}

type dbQuery struct {
	t   *testing.T
	row *sql.Row
}

func Query(t *testing.T, db *sql.DB, query string, args ...any) *dbQuery {
	t.Helper()

	row := db.QueryRow(query, args...)
	require.NoError(t, row.Err())

	return &dbQuery{
		t:   t,
		row: row,
	}
}

func (q *dbQuery) AsInt64() int64 {
	q.t.Helper()

	var v int64
	err := q.row.Scan(&v)
	require.NoError(q.t, err)
	return v
}

func (q *dbQuery) AsString() string {
	q.t.Helper()

	var v string
	err := q.row.Scan(&v)
	require.NoError(q.t, err)
	return v
}
