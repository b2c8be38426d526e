package results

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"listenrate/internal/config"
	"listenrate/internal/fileutil"
	"listenrate/internal/logging"
	"listenrate/internal/services"
)

const (
	// CollisionSuffix is appended to the base name while any output exists.
	CollisionSuffix = "_new"

	lockFileName   = ".listenrate.lock"
	lockRetryDelay = 100 * time.Millisecond
	lockTimeout    = 10 * time.Second
)

// Paths lists the files written for one table. Fields are empty for outputs
// that were disabled or failed to write.
type Paths struct {
	Base string
	JSON string
	CSV  string
	XLSX string
}

// Any reports whether at least one output reached disk.
func (p Paths) Any() bool {
	return p.JSON != "" || p.CSV != "" || p.XLSX != ""
}

// Store persists results tables under a base name in one directory.
type Store struct {
	dir    string
	base   string
	xlsx   bool
	logger *slog.Logger
}

// NewStore creates a store writing into dir.
func NewStore(dir, base string, xlsx bool, logger *slog.Logger) *Store {
	return &Store{
		dir:    dir,
		base:   base,
		xlsx:   xlsx,
		logger: logging.NewComponentLogger(logger, "results"),
	}
}

// NewStoreFromConfig creates a store using the configured results directory,
// base name and export toggles.
func NewStoreFromConfig(cfg *config.Config, logger *slog.Logger) *Store {
	return NewStore(cfg.Paths.ResultsDir, cfg.Session.ResultsBaseName, cfg.Export.XLSX, logger)
}

// Save writes the table under the first free base name. The results
// directory is locked for the duration so concurrent sessions on one booth
// cannot claim the same name. Each output is written independently; the
// returned Paths lists what succeeded and the error joins what did not.
func (s *Store) Save(ctx context.Context, table *Table) (Paths, error) {
	logger := logging.WithContext(ctx, s.logger)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Paths{}, services.Wrap(services.ErrConfiguration, "results", "save", "create results directory", err)
	}

	lock := flock.New(filepath.Join(s.dir, lockFileName))
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		return Paths{}, services.Wrap(services.ErrTransient, "results", "lock", s.dir, err)
	}
	if !locked {
		return Paths{}, services.Wrap(services.ErrTransient, "results", "lock", "results directory busy", nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release results lock failed", logging.Error(err))
		}
	}()

	base, err := s.ResolveBase()
	if err != nil {
		return Paths{}, err
	}
	paths := Paths{Base: base}
	var errs []error

	jsonPath := base + ".json"
	if err := fileutil.WriteAtomic(jsonPath, 0o644, func(w io.Writer) error { return writeJSON(w, table) }); err != nil {
		errs = append(errs, fmt.Errorf("write %s: %w", jsonPath, err))
	} else {
		paths.JSON = jsonPath
	}

	csvPath := base + ".csv"
	if err := fileutil.WriteAtomic(csvPath, 0o644, func(w io.Writer) error { return writeCSV(w, table) }); err != nil {
		errs = append(errs, fmt.Errorf("write %s: %w", csvPath, err))
	} else {
		paths.CSV = csvPath
	}

	if s.xlsx {
		xlsxPath := base + ".xlsx"
		if err := fileutil.WriteAtomic(xlsxPath, 0o644, func(w io.Writer) error { return writeXLSX(w, table) }); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", xlsxPath, err))
		} else {
			paths.XLSX = xlsxPath
		}
	}

	if err := errors.Join(errs...); err != nil {
		logger.Error("results partially saved", logging.String("base", base), logging.Error(err))
		return paths, services.Wrap(services.ErrTransient, "results", "save", "", err)
	}
	logger.Info("results saved",
		logging.String("base", base),
		logging.Int("rows", len(table.Rows)),
		logging.Bool("xlsx", s.xlsx),
	)
	return paths, nil
}

// ResolveBase returns the absolute base path (without extension) that Save
// would use now: the configured name with CollisionSuffix appended until no
// output file exists under it.
func (s *Store) ResolveBase() (string, error) {
	base := filepath.Join(s.dir, s.base)
	for {
		taken, err := s.taken(base)
		if err != nil {
			return "", err
		}
		if !taken {
			return base, nil
		}
		base += CollisionSuffix
	}
}

func (s *Store) taken(base string) (bool, error) {
	exts := []string{".json", ".csv"}
	if s.xlsx {
		exts = append(exts, ".xlsx")
	}
	for _, ext := range exts {
		exists, err := fileutil.Exists(base + ext)
		if err != nil {
			return false, services.Wrap(services.ErrTransient, "results", "probe", base+ext, err)
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}
