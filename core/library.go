package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/internal/library"
	"github.com/huangsam/questlog/internal/logging"
	"github.com/huangsam/questlog/schema"
	"github.com/schollz/progressbar/v3"
)

// ErrNoLibraryStore is returned when an import targets the none backend.
var ErrNoLibraryStore = errors.New("library backend is 'none'; choose sqlite, mysql or postgresql to import")

// ExecuteLibraryImport validates a snapshot file and replaces the library store contents with it.
// It serves as the main entry point for the 'library import' command.
func ExecuteLibraryImport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, path string) error {
	if cfg.LibraryBackend == schema.NoneBackend || mgr == nil {
		return ErrNoLibraryStore
	}
	store := mgr.GetLibraryStore()
	if store == nil {
		return ErrNoLibraryStore
	}

	start := time.Now()
	ctx = logging.WithRunID(withCommand(ctx, "library import"), logging.NewRunID())

	snap, dropped, err := library.LoadFile(path)
	if err != nil {
		return err
	}

	total := len(snap.Games) + len(snap.Sessions)
	var progress contract.ProgressFunc
	if total > 0 && !shouldSuppressHeader(ctx) {
		bar := progressbar.Default(int64(total), "importing")
		progress = func(n int) { _ = bar.Add(n) }
	}
	if err := store.ReplaceSnapshot(snap, progress); err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}

	logging.Ctx(ctx).Info().
		Str("path", path).
		Str("backend", string(cfg.LibraryBackend)).
		Int("games", len(snap.Games)).
		Int("sessions", len(snap.Sessions)).
		Int("dropped", dropped.Total()).
		Dur("duration", time.Since(start)).
		Msg("Library imported")

	_, err = fmt.Fprintf(os.Stdout, "Imported %d games and %d sessions into the %s library\n",
		len(snap.Games), len(snap.Sessions), cfg.LibraryBackend)
	if err != nil {
		return err
	}
	if dropped.Total() > 0 {
		_, err = fmt.Fprintf(os.Stdout, "Dropped %d invalid records\n", dropped.Total())
	}
	return err
}
