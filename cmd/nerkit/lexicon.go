package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/nerkit/pkg/nerkit/lexicon"
	"github.com/cognicore/nerkit/pkg/nerkit/lexicon/sqlite"
)

var errMissingDB = errors.New("no gazetteer database: pass --db or set lexicon.sqlite")

var lexiconDB string

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Manage gazetteer stores",
}

var lexiconImportCmd = &cobra.Command{
	Use:   "import FILE.yaml...",
	Short: "Import YAML lexicons into a SQLite gazetteer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLexiconImport,
}

func init() {
	lexiconImportCmd.Flags().StringVar(&lexiconDB, "db", "", "SQLite gazetteer path (default lexicon.sqlite from config)")
	lexiconCmd.AddCommand(lexiconImportCmd)
	rootCmd.AddCommand(lexiconCmd)
}

func runLexiconImport(cmd *cobra.Command, args []string) error {
	path := lexiconDB
	if path == "" {
		path = cfg.Lexicon.SQLite
	}
	if path == "" {
		return errMissingDB
	}

	store, err := sqlite.Open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, file := range args {
		lex, err := lexicon.LoadFromYAML(file)
		if err != nil {
			return err
		}
		n, err := store.ImportLexicon(cmd.Context(), lex)
		if err != nil {
			return err
		}
		log.Info("lexicon imported", "file", file, "phrases", n)
	}

	for _, c := range lexicon.Categories {
		count, err := store.Count(cmd.Context(), c)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", c, count)
	}
	return nil
}
