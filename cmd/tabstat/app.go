package main

import (
	"context"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"

	"tabstat/adapters/db/postgres"
	"tabstat/adapters/excel"
	"tabstat/adapters/stats/plotdata"
	"tabstat/domain/dataset"
	"tabstat/internal"
	"tabstat/internal/compute"
	"tabstat/internal/config"
	"tabstat/internal/errors"
	"tabstat/internal/session"
	"tabstat/ports"
)

// sqlPrefix marks a source as a SQL query instead of a file path
const sqlPrefix = "sql:"

// app bundles the dependencies every command shares
type app struct {
	cfg     *config.Config
	logger  *internal.Logger
	session *session.Session
	runner  *compute.Runner

	dbOnce sync.Once
	db     *sqlx.DB
	dbErr  error
}

func (a *app) init(cfgFile, logLevel string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		if _, ok := internal.ParseLogLevel(logLevel); !ok {
			return errors.InvalidInput("unknown log level " + logLevel)
		}
		cfg.Log.Level = logLevel
	}
	a.cfg = cfg
	a.logger = cfg.Logger()
	internal.DefaultLogger = a.logger

	a.session = session.New(a.loader(), session.Options{
		Exclude:       cfg.Stats.Exclude,
		MatrixExclude: cfg.Stats.MatrixExclude,
		Plot: plotdata.Options{
			ScatterCap:    cfg.Stats.ScatterCap,
			ScatterSeed:   cfg.Stats.ScatterSeed,
			HistogramBins: cfg.Stats.HistogramBins,
		},
	}).WithLogger(a.logger)
	a.runner = compute.NewRunner(0).WithLogger(a.logger)
	return nil
}

func (a *app) close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// loader dispatches "sql:<query>" sources to PostgreSQL and everything else
// to the file loader.
func (a *app) loader() ports.TableLoader {
	files := excel.NewLoader(excel.LoaderConfig{
		SampleRows:     a.cfg.Data.SampleRows,
		Identifiers:    a.cfg.Data.Identifiers,
		Sheet:          a.cfg.Data.Sheet,
		CoercionConfig: excel.DefaultLoaderConfig().CoercionConfig,
	})
	return ports.TableLoaderFunc(func(ctx context.Context, source string) (*dataset.Table, dataset.Metadata, error) {
		if !strings.HasPrefix(strings.ToLower(source), sqlPrefix) {
			return files.Load(ctx, source)
		}
		db, err := a.database(ctx)
		if err != nil {
			return nil, dataset.Metadata{}, err
		}
		query := strings.TrimSpace(source[len(sqlPrefix):])
		return postgres.NewTableSource(db, a.cfg.Data.Identifiers, a.cfg.Database.MaxRows).Load(ctx, query)
	})
}

func (a *app) database(ctx context.Context) (*sqlx.DB, error) {
	a.dbOnce.Do(func() {
		if a.cfg.Database.URL == "" {
			a.dbErr = errors.ConfigInvalid("DATABASE_URL is required for sql: sources")
			return
		}
		db, err := postgres.Open(ctx, a.cfg.Database.URL)
		if err != nil {
			a.dbErr = errors.WithCode(errors.CodeDatabaseError, err)
			return
		}
		a.db = db
	})
	return a.db, a.dbErr
}

// load reads the source named on the command line, or the configured file
func (a *app) load(ctx context.Context, args []string) (*session.Snapshot, error) {
	source := a.cfg.Data.File
	if len(args) > 0 {
		source = args[0]
	}
	if source == "" {
		return nil, errors.InvalidInput("no data source given (pass a file or set data.file)")
	}
	return a.session.Load(ctx, source)
}
