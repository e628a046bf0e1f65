package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/nerkit/pkg/nerkit/config"
	"github.com/cognicore/nerkit/pkg/nerkit/corpus"
	"github.com/cognicore/nerkit/pkg/nerkit/eval"
	"github.com/cognicore/nerkit/pkg/nerkit/training"
)

var trainOutput string

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE...",
	Short: "Parse annotated corpus files and print a summary",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIngest,
}

var trainFeaturesCmd = &cobra.Command{
	Use:   "train-features FILE...",
	Short: "Write labeled training lines for annotated corpus files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTrainFeatures,
}

var evalCmd = &cobra.Command{
	Use:   "eval FILE...",
	Short: "Score the tagger against annotated corpus files",
	Long: `Runs the configured pipeline on every annotated sentence and reports
exact-match precision, recall and F1 per entity type.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	trainFeaturesCmd.Flags().StringVarP(&trainOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(ingestCmd, trainFeaturesCmd, evalCmd)
}

// ingestAll parses files and reports failures. It returns the documents of
// the files that parsed and an error if any did not.
func ingestAll(cmd *cobra.Command, comp *config.Components, paths []string) ([]corpus.TrainingDocument, error) {
	var docs []corpus.TrainingDocument
	failed := 0
	for _, r := range comp.Ingestor.IngestFiles(cmd.Context(), paths, cfg.Ingest.Workers) {
		if r.Err != nil {
			failed++
			cmd.PrintErrf("%s: %v\n", r.Path, r.Err)
			continue
		}
		docs = append(docs, r.Documents...)
	}
	if failed > 0 {
		return docs, fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return docs, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	comp, err := components(cmd)
	if err != nil {
		return err
	}
	defer comp.Close()

	docs, err := ingestAll(cmd, comp, args)
	for _, d := range docs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tparagraphs=%d\tsentences=%d\tentities=%d\n",
			d.ID, d.Name, d.Lang, len(d.Paragraphs), len(d.Sentences()), d.EntityCount())
	}
	return err
}

func runTrainFeatures(cmd *cobra.Command, args []string) error {
	comp, err := components(cmd)
	if err != nil {
		return err
	}
	defer comp.Close()

	docs, ingestErr := ingestAll(cmd, comp, args)

	out := cmd.OutOrStdout()
	if trainOutput != "" {
		f, err := os.Create(trainOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := training.NewWriter(out, nil, comp.Parser.Featurizer())
	for _, d := range docs {
		if err := w.WriteDocument(d); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	sentences, tokens := w.Stats()
	log.Info("training lines written", "documents", len(docs), "sentences", sentences, "tokens", tokens)
	return ingestErr
}

func runEval(cmd *cobra.Command, args []string) error {
	comp, err := components(cmd)
	if err != nil {
		return err
	}
	defer comp.Close()

	docs, err := ingestAll(cmd, comp, args)
	if err != nil {
		return err
	}

	report, err := eval.Run(cmd.Context(), comp.Parser, docs)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report.String())
	return nil
}
