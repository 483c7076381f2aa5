package faults

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"faultcapture/src/model"
	"faultcapture/src/repository"
)

// Lister reads journaled faults.
type Lister interface {
	Search(ctx context.Context, opts repository.FaultSearchOptions) ([]model.FaultRecord, error)
}

// Faults prints the newest journaled faults.
type Faults struct {
	Repo   Lister
	Limit  int
	Level  string
	Output string
	Out    io.Writer
}

func (f *Faults) Start(ctx context.Context) error {
	out := f.Out
	if out == nil {
		out = os.Stdout
	}

	records, err := f.Repo.Search(ctx, repository.FaultSearchOptions{Level: f.Level, Limit: f.Limit})
	if err != nil {
		return fmt.Errorf("listing faults: %w", err)
	}
	return Render(out, records, f.Output)
}

type entry struct {
	ID        uint              `json:"id" yaml:"id"`
	TraceID   string            `json:"trace_id" yaml:"trace_id"`
	Level     string            `json:"level" yaml:"level"`
	Message   string            `json:"message" yaml:"message"`
	File      string            `json:"file,omitempty" yaml:"file,omitempty"`
	Line      int               `json:"line,omitempty" yaml:"line,omitempty"`
	Code      int               `json:"code" yaml:"code"`
	Class     string            `json:"class,omitempty" yaml:"class,omitempty"`
	Context   map[string]string `json:"context,omitempty" yaml:"context,omitempty"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
}

func toEntry(rec model.FaultRecord) entry {
	e := entry{
		ID:        rec.ID,
		TraceID:   rec.TraceID.String(),
		Level:     rec.Level,
		Message:   rec.Message,
		File:      rec.File,
		Line:      rec.Line,
		Code:      rec.Code,
		Class:     rec.Class,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Context != "" {
		_ = json.Unmarshal([]byte(rec.Context), &e.Context)
	}
	return e
}

// Render writes records as text, json or yaml.
func Render(w io.Writer, records []model.FaultRecord, format string) error {
	entries := make([]entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, toEntry(rec))
	}

	switch strings.ToLower(format) {
	case "", "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTIME\tLEVEL\tLOCATION\tMESSAGE")
		for _, e := range entries {
			location := ""
			if e.File != "" {
				location = fmt.Sprintf("%s:%d", e.File, e.Line)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.CreatedAt.Format(time.RFC3339), e.Level, location, e.Message)
		}
		return tw.Flush()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
