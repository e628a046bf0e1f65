package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cognicore/nerkit/pkg/nerkit/corpus"
	"github.com/cognicore/nerkit/pkg/nerkit/decode"
	"github.com/cognicore/nerkit/pkg/nerkit/lexicon"
	"github.com/cognicore/nerkit/pkg/nerkit/lexicon/sqlite"
	"github.com/cognicore/nerkit/pkg/nerkit/ner"
	"github.com/cognicore/nerkit/pkg/nerkit/tagger"
	"github.com/cognicore/nerkit/pkg/nerkit/temporal"
)

// Loader constructs components from a Config
type Loader struct {
	Config *Config
	Logger *slog.Logger
}

// Components holds the constructed pipeline
type Components struct {
	Gazetteer lexicon.Gazetteer
	Temporal  *temporal.Lexicon
	Tagger    tagger.Tagger
	Parser    *ner.Parser
	Ingestor  *corpus.Ingestor

	store *sqlite.Store
}

// Load builds every component. The returned Components must be closed.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}
	log := l.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	comp := &Components{}

	// Gazetteer
	gaz, store, err := loadGazetteer(ctx, cfg.Lexicon, log)
	if err != nil {
		return nil, err
	}
	comp.Gazetteer, comp.store = gaz, store

	// Temporal tables
	if cfg.Temporal.Path != "" {
		comp.Temporal, err = temporal.LoadFromYAML(cfg.Temporal.Path)
	} else {
		comp.Temporal, err = temporal.Default()
	}
	if err != nil {
		comp.Close()
		return nil, fmt.Errorf("load temporal tables: %w", err)
	}

	// Tagger
	if cfg.Tagger.Command != "" {
		comp.Tagger = tagger.NewCommand(cfg.Tagger.Command, cfg.Tagger.Args...)
		log.Info("using external tagger", "command", cfg.Tagger.Command)
	} else {
		comp.Tagger = tagger.Baseline{}
		log.Info("using lexicon baseline tagger")
	}

	comp.Parser, err = ner.New(ner.Options{
		Gazetteer:     comp.Gazetteer,
		Temporal:      comp.Temporal,
		Tagger:        comp.Tagger,
		Reconstructor: &decode.Reconstructor{Default: cfg.Tagger.DefaultConfidence},
		Logger:        log,
	})
	if err != nil {
		comp.Close()
		return nil, err
	}

	comp.Ingestor = corpus.NewIngestor()
	comp.Ingestor.Strict = cfg.Ingest.Strict
	comp.Ingestor.Logger = log

	return comp, nil
}

// Close releases the gazetteer store, if any.
func (c *Components) Close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

func loadGazetteer(ctx context.Context, cfg Lexicon, log *slog.Logger) (lexicon.Gazetteer, *sqlite.Store, error) {
	var lex *lexicon.Lexicon
	if cfg.Path != "" {
		var err error
		if lex, err = lexicon.LoadFromYAML(cfg.Path); err != nil {
			return nil, nil, fmt.Errorf("load lexicon: %w", err)
		}
	}

	if cfg.SQLite == "" {
		if lex == nil {
			return nil, nil, nil
		}
		log.Info("lexicon loaded", "path", cfg.Path)
		return lex, nil, nil
	}

	store, err := sqlite.Open(ctx, cfg.SQLite)
	if err != nil {
		return nil, nil, fmt.Errorf("open gazetteer store: %w", err)
	}
	if lex != nil {
		n, err := store.ImportLexicon(ctx, lex)
		if err != nil {
			return nil, nil, errors.Join(fmt.Errorf("import lexicon: %w", err), store.Close())
		}
		log.Info("lexicon imported", "path", cfg.Path, "store", cfg.SQLite, "phrases", n)
	}
	return store, store, nil
}
