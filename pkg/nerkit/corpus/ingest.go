package corpus

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/oklog/ulid/v2"
	"golang.org/x/net/html/charset"
)

// Ingestor reads corpus files. It holds no per-stream state, so one
// Ingestor may be used from several goroutines.
type Ingestor struct {
	Strict bool
	NewID  func() ulid.ULID
	Logger *slog.Logger
}

// NewIngestor creates a lenient ingestor.
func NewIngestor() *Ingestor {
	return &Ingestor{NewID: ulid.Make}
}

// Ingest parses one corpus stream. name labels errors and log records.
func (in *Ingestor) Ingest(ctx context.Context, r io.Reader, name string) ([]TrainingDocument, error) {
	m := NewMachine(in.Strict)
	if in.NewID != nil {
		m.NewID = in.NewID
	}

	decoder := xml.NewDecoder(r)
	decoder.Strict = true
	// No entity expansion beyond the XML built-ins.
	decoder.Entity = map[string]string{}
	decoder.CharsetReader = charset.NewReaderLabel

	for n := 0; ; n++ {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line, col := decoder.InputPos()
			return nil, &MarkupError{File: name, Line: line, Column: col, State: m.State(), Err: err}
		}

		var ev Event
		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make([]Attr, len(t.Attr))
			for i, a := range t.Attr {
				attrs[i] = Attr{Name: a.Name.Local, Value: a.Value}
			}
			ev = StartElement{Name: t.Name.Local, Attrs: attrs}
		case xml.EndElement:
			ev = EndElement{Name: t.Name.Local}
		case xml.CharData:
			ev = Text{Data: string(t)}
		default:
			continue
		}

		if err := m.Handle(ev); err != nil {
			return nil, in.locate(err, name, decoder)
		}
	}

	if err := m.Finish(); err != nil {
		return nil, in.locate(err, name, decoder)
	}

	docs := m.Documents()
	in.logger().Debug("corpus ingested", "source", name, "documents", len(docs))
	return docs, nil
}

// IngestFile parses the corpus file at path.
func (in *Ingestor) IngestFile(ctx context.Context, path string) ([]TrainingDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	return in.Ingest(ctx, f, path)
}

// FileResult is the outcome of ingesting one file.
type FileResult struct {
	Path      string
	Documents []TrainingDocument
	Err       error
}

// IngestFiles parses files concurrently with at most workers goroutines
// (NumCPU when workers <= 0). Results are in input order; a failed file
// is reported in its result and does not stop the others.
func (in *Ingestor) IngestFiles(ctx context.Context, paths []string, workers int) []FileResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]FileResult, len(paths))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			docs, err := in.IngestFile(ctx, path)
			if err != nil {
				in.logger().Warn("corpus file skipped", "path", path, "error", err)
			}
			results[i] = FileResult{Path: path, Documents: docs, Err: err}
		}(i, path)
	}
	wg.Wait()

	return results
}

func (in *Ingestor) locate(err error, name string, d *xml.Decoder) error {
	var me *MarkupError
	if !errors.As(err, &me) {
		return err
	}
	me.File = name
	me.Line, me.Column = d.InputPos()
	return me
}

func (in *Ingestor) logger() *slog.Logger {
	if in.Logger != nil {
		return in.Logger
	}
	return slog.New(slog.DiscardHandler)
}
