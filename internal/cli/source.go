package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/comitanigiacomo/liftbook/internal/adapters/repository"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

// localUser owns everything loaded from a file.
const localUser = "local"

// importFile is the TOML layout accepted by import, summary and chart:
//
//	[[lift]]
//	name = "Bench Press"
//	weight = 135.0
//	reps = 5
//	date = "2024-01-01"
//
//	[[bodyweight]]
//	weight = 82.5
//	unit = "kg"
//	date = "2024-01-01"
type importFile struct {
	Lifts      []importLift       `toml:"lift"`
	Bodyweight []importBodyweight `toml:"bodyweight"`
}

type importLift struct {
	Name   string      `toml:"name"`
	Weight float64     `toml:"weight"`
	Reps   float64     `toml:"reps"`
	Date   domain.Date `toml:"date"`
}

type importBodyweight struct {
	Weight float64     `toml:"weight"`
	Unit   string      `toml:"unit"`
	Date   domain.Date `toml:"date"`
	Notes  string      `toml:"notes"`
}

func readImportFile(path string) (*importFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var f importFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid TOML format: %w", err)
	}
	return &f, nil
}

// source is where a command reads and writes measurements.
type source struct {
	userID       string
	measurements domain.MeasurementRepository
	close        func()
}

func openSource(ctx context.Context, opts *rootOptions) (*source, error) {
	switch {
	case opts.file != "":
		return openFileSource(opts.file)
	case opts.dsn != "":
		return openDBSource(ctx, opts.dsn, opts.user)
	default:
		return nil, errors.New("either --file or --dsn is required")
	}
}

// openFileSource loads a TOML file into an in-memory store. Bodyweight
// entries are ignored; only lifts feed the summary and chart.
func openFileSource(path string) (*source, error) {
	f, err := readImportFile(path)
	if err != nil {
		return nil, err
	}

	ms := make([]*domain.Measurement, 0, len(f.Lifts))
	for i, l := range f.Lifts {
		m, err := domain.NewLift(localUser, l.Name, l.Weight, l.Reps, l.Date)
		if err != nil {
			return nil, fmt.Errorf("lift %d: %w", i+1, err)
		}
		ms = append(ms, m)
	}

	repo := repository.NewInMemoryMeasurementRepository()
	if err := repo.CreateBatch(context.Background(), ms); err != nil {
		return nil, err
	}
	return &source{userID: localUser, measurements: repo, close: func() {}}, nil
}

func openDBSource(ctx context.Context, dsn, user string) (*source, error) {
	if user == "" {
		return nil, errors.New("--user is required with --dsn")
	}

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := repository.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	userID, err := resolveUser(ctx, repository.NewPostgresUserRepository(db), user)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &source{
		userID:       userID,
		measurements: repository.NewPostgresMeasurementRepository(db),
		close:        func() { _ = db.Close() },
	}, nil
}

// resolveUser accepts either an email or a user id.
func resolveUser(ctx context.Context, users domain.UserRepository, user string) (string, error) {
	var (
		u   *domain.User
		err error
	)
	if strings.Contains(user, "@") {
		u, err = users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(user)))
	} else {
		u, err = users.GetByID(ctx, user)
	}
	if err != nil {
		return "", fmt.Errorf("user %q: %w", user, err)
	}
	return u.ID, nil
}
