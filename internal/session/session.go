package session

import (
	"context"
	"sync"
	"time"

	"tabstat/adapters/stats/plotdata"
	"tabstat/domain/dataset"
	domainstats "tabstat/domain/stats"
	"tabstat/internal"
	"tabstat/internal/errors"
	"tabstat/internal/present"
	"tabstat/ports"
)

// Options control how a loaded table is turned into numeric views
type Options struct {
	Exclude       []string // dropped from the numeric column set
	MatrixExclude []string // additionally dropped from matrix charts
	Plot          plotdata.Options
}

// Snapshot is the immutable state derived from one loaded table. A reload
// produces a new Snapshot; existing ones stay valid.
type Snapshot struct {
	Table    *dataset.Table
	Meta     dataset.Metadata
	Set      *dataset.NumericSet
	Preparer *plotdata.Preparer
	LoadedAt time.Time
	options  Options
}

// MatrixExclude returns the columns left out of matrix charts
func (s *Snapshot) MatrixExclude() []string {
	return append([]string(nil), s.options.MatrixExclude...)
}

// Views shapes results over every numeric column of the snapshot, so
// columns without a result show the placeholder.
func (s *Snapshot) Views(results []domainstats.Result) ([]present.View, error) {
	views := make([]present.View, 0, len(results))
	for _, res := range results {
		view, err := present.Shape(res, s.Set.Names())
		if err != nil {
			return nil, errors.Wrapf(err, "shape %s", res.Statistic)
		}
		views = append(views, view)
	}
	return views, nil
}

// Report assembles shaped results into a report titled after the source
func (s *Snapshot) Report(results []domainstats.Result) (present.Report, error) {
	views, err := s.Views(results)
	if err != nil {
		return present.Report{}, err
	}
	return present.Report{Title: s.Meta.Name, Metadata: s.Meta, Views: views}, nil
}

// Session holds the currently loaded table. It is safe for concurrent use.
type Session struct {
	mu      sync.RWMutex
	current *Snapshot

	loader  ports.TableLoader
	options Options
	logger  *internal.Logger
}

// New creates an empty session loading through loader
func New(loader ports.TableLoader, opts Options) *Session {
	return &Session{
		loader:  loader,
		options: opts,
		logger:  internal.DefaultLogger.WithComponent("Session"),
	}
}

// WithLogger replaces the session logger
func (s *Session) WithLogger(l *internal.Logger) *Session {
	s.logger = l.WithComponent("Session")
	return s
}

// Load reads source and replaces the current snapshot. On failure the
// previous snapshot is kept.
func (s *Session) Load(ctx context.Context, source string) (*Snapshot, error) {
	if s.loader == nil {
		return nil, errors.ConfigInvalid("no table loader configured")
	}
	table, meta, err := s.loader.Load(ctx, source)
	if err != nil {
		s.logger.Warn("Failed to load %s: %v", source, err)
		return nil, errors.Wrapf(err, "failed to load %s", source)
	}
	return s.Use(table, meta), nil
}

// Use installs an already loaded table as the current snapshot
func (s *Session) Use(table *dataset.Table, meta dataset.Metadata) *Snapshot {
	set := dataset.SelectNumeric(table, s.options.Exclude...)
	snap := &Snapshot{
		Table:    table,
		Meta:     meta,
		Set:      set,
		Preparer: plotdata.New(set, s.options.Plot),
		LoadedAt: time.Now(),
		options:  s.options,
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.logger.Info("Loaded %s: %d rows, %d columns, %d numeric", meta.Name, table.Rows(), table.Len(), set.Len())
	return snap
}

// Current returns the loaded snapshot
func (s *Session) Current() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

// Status returns the status bar line for the current table
func (s *Session) Status() string {
	snap, ok := s.Current()
	if !ok {
		return present.StatusLine(0)
	}
	return present.StatusLine(snap.Table.Len())
}
