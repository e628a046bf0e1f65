package tagger

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Command runs an external CRF labeler (wapiti style) once per batch: the
// feature lines go to stdin, and every non-empty output line is read as the
// input columns followed by the label, optionally suffixed "/probability".
type Command struct {
	Path string
	Args []string
}

// NewCommand creates a command tagger.
func NewCommand(path string, args ...string) *Command {
	return &Command{Path: path, Args: args}
}

// Tag implements Tagger.
func (c *Command) Tag(ctx context.Context, lines []string) ([]Result, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n") + "\n\n")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("run %s: %w: %s", c.Path, err, msg)
		}
		return nil, fmt.Errorf("run %s: %w", c.Path, err)
	}

	return ParseOutput(stdout.String())
}

// ParseOutput reads labeler output, one result per non-empty line.
func ParseOutput(out string) ([]Result, error) {
	var results []Result
	sc := bufio.NewScanner(strings.NewReader(out))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("tagger output line %d: want token and label, got %q", n, sc.Text())
		}

		r := Result{Token: fields[0], Label: fields[len(fields)-1]}
		if i := strings.LastIndexByte(r.Label, '/'); i > 0 {
			if p, err := strconv.ParseFloat(r.Label[i+1:], 64); err == nil {
				r.Label, r.Prob, r.HasProb = r.Label[:i], p, true
			}
		}
		results = append(results, r)
	}
	return results, sc.Err()
}
