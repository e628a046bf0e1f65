package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/nerkit/internal/htmltext"
	"github.com/cognicore/nerkit/pkg/nerkit/entity"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

var (
	tagHTML bool
	tagFile string
	tagJSON bool
)

var tagCmd = &cobra.Command{
	Use:   "tag [text]",
	Short: "Extract named entities from text",
	Long: `Extracts entities from the given text, from --file, or from stdin.
With --html the input is read as HTML and its visible text is tagged.`,
	RunE: runTag,
}

var featuresCmd = &cobra.Command{
	Use:   "features [text]",
	Short: "Print the model feature lines of text",
	RunE:  runFeatures,
}

func init() {
	for _, c := range []*cobra.Command{tagCmd, featuresCmd} {
		c.Flags().BoolVar(&tagHTML, "html", false, "input is HTML")
		c.Flags().StringVarP(&tagFile, "file", "f", "", "read input from file")
	}
	tagCmd.Flags().BoolVar(&tagJSON, "json", false, "output entities as JSON")
	rootCmd.AddCommand(tagCmd, featuresCmd)
}

// readInput returns the text to process: arguments, then --file, then stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	var text string
	switch {
	case len(args) > 0:
		text = strings.Join(args, " ")
	case tagFile != "":
		data, err := os.ReadFile(tagFile)
		if err != nil {
			return "", err
		}
		text = string(data)
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		text = string(data)
	}

	if tagHTML {
		return htmltext.String(text)
	}
	return text, nil
}

func runTag(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	comp, err := components(cmd)
	if err != nil {
		return err
	}
	defer comp.Close()

	ents, err := comp.Parser.ExtractText(cmd.Context(), text)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	if tagJSON {
		if ents == nil {
			ents = []entity.Entity{}
		}
		data, err := json.MarshalIndent(ents, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	for _, e := range ents {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d\t%s\t%s\t%.3f\n", e.Start, e.End, e.Type, e.RawText, e.Confidence)
	}
	return nil
}

func runFeatures(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	comp, err := components(cmd)
	if err != nil {
		return err
	}
	defer comp.Close()

	toks, err := token.NewTokenizer().Analyze(text)
	if err != nil {
		return err
	}
	lines, err := comp.Parser.Features(token.NewSequence(text, toks))
	if err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), l)
	}
	return nil
}
