package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Veraticus/spendsmart/internal/cli"
	"github.com/Veraticus/spendsmart/internal/config"
	"github.com/Veraticus/spendsmart/internal/llm"
	"github.com/Veraticus/spendsmart/internal/storage"
	"github.com/Veraticus/spendsmart/internal/tracker"
)

// initStorage opens the SQLite database with proper path expansion and
// brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStore, error) {
	store, err := storage.NewSQLiteStore(config.DatabasePath(viper.GetViper()))
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// session bundles an open tracker with the resources backing it.
type session struct {
	*tracker.Tracker
	repo       *storage.Repository
	classifier *llm.Classifier
}

func (s *session) Close() {
	if s.classifier != nil {
		s.classifier.Close()
	}
	if err := s.repo.Close(); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}

// openSession loads the tracker. The oracles are attached only when an LLM
// provider is configured; every other command works without them.
func openSession(ctx context.Context) (*session, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	repo := storage.NewRepository(store, logger)
	s := &session{repo: repo}

	opts := []tracker.Option{tracker.WithLogger(logger)}
	if cfg, err := config.LoadLLMConfig(viper.GetViper()); err != nil {
		logger.Debug("AI features disabled", "reason", err)
	} else {
		classifier, err := llm.NewClassifier(cfg, logger)
		if err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("failed to create classifier: %w", err)
		}
		insights, err := llm.NewInsightGenerator(cfg, logger)
		if err != nil {
			classifier.Close()
			_ = repo.Close()
			return nil, fmt.Errorf("failed to create insight generator: %w", err)
		}
		s.classifier = classifier
		opts = append(opts, tracker.WithCategoryOracle(classifier), tracker.WithInsightOracle(insights))
	}

	t, err := tracker.Open(ctx, repo, opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Tracker = t
	return s, nil
}

// warnUnsaved tells the user when the last change did not reach disk. The
// in-memory state is still correct for the rest of this command.
func warnUnsaved(w io.Writer, s *session) {
	if err := s.SaveErr(); err != nil {
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("Changes could not be saved: %v", err)))
	}
}
