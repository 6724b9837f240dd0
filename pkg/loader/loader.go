// Package loader reads interval CSV files. Each line holds a start and an end
// (or a start and a length in extent mode) separated by a comma. Lines that
// do not carry two usable numbers are skipped, not treated as errors.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/henderiw/intervalcov/pkg/interval"
	"github.com/henderiw/intervalcov/pkg/keyspace"
	"github.com/pierrec/lz4/v4"
	"k8s.io/apimachinery/pkg/labels"
)

// ErrFileUnavailable is returned when the input cannot be opened. Nothing is
// read in that case.
var ErrFileUnavailable = errors.New("input file unavailable")

const maxLineLen = 64 * 1024

type Record[K any] struct {
	Line   int
	Start  K
	End    K
	Labels labels.Set
}

type Stats struct {
	Lines    int
	Loaded   int
	Skipped  int // malformed lines
	Filtered int // well formed lines rejected by the selector
}

type Loader[K any] struct {
	space    keyspace.Space[K]
	extent   bool
	selector labels.Selector
	log      *slog.Logger
}

type Option[K any] func(*Loader[K])

// WithExtent reads the second field as a length instead of an end key.
func WithExtent[K any](extent bool) Option[K] {
	return func(l *Loader[K]) { l.extent = extent }
}

// WithSelector keeps only records whose labels match s.
func WithSelector[K any](s labels.Selector) Option[K] {
	return func(l *Loader[K]) { l.selector = s }
}

func WithLogger[K any](log *slog.Logger) Option[K] {
	return func(l *Loader[K]) { l.log = log }
}

func New[K any](space keyspace.Space[K], opts ...Option[K]) *Loader[K] {
	l := &Loader[K]{
		space:    space,
		selector: labels.Everything(),
		log:      slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Into returns a sink inserting every record into t.
func Into[K any](t *interval.Tree[K]) func(Record[K]) {
	return func(r Record[K]) { t.Insert(r.Start, r.End) }
}

// LoadFile opens path and loads it. Files ending in .lz4 are decompressed.
func (l *Loader[K]) LoadFile(path string, sink func(Record[K])) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrFileUnavailable, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".lz4") {
		r = lz4.NewReader(f)
	}
	stats, err := l.Load(r, sink)
	if err != nil {
		return stats, fmt.Errorf("reading %s: %w", path, err)
	}
	return stats, nil
}

// Load reads lines from r and hands every well formed record to sink.
func (l *Loader[K]) Load(r io.Reader, sink func(Record[K])) (Stats, error) {
	var stats Stats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLen)
	for scanner.Scan() {
		stats.Lines++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := l.ParseLine(line)
		if err != nil {
			stats.Skipped++
			l.log.Debug("skipping line", "line", stats.Lines, "error", err)
			continue
		}
		rec.Line = stats.Lines
		if !l.selector.Matches(rec.Labels) {
			stats.Filtered++
			l.log.Debug("filtered line", "line", rec.Line, "labels", rec.Labels.String())
			continue
		}
		sink(rec)
		stats.Loaded++
	}
	if err := scanner.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// ParseLine turns one CSV line into a record. Any error wraps
// keyspace.ErrMalformedKey.
func (l *Loader[K]) ParseLine(line string) (Record[K], error) {
	var rec Record[K]
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' })
	if len(fields) < 2 {
		return rec, fmt.Errorf("%w: want 2 fields, got %d", keyspace.ErrMalformedKey, len(fields))
	}
	first, ok := Trim(fields[0])
	if !ok {
		return rec, fmt.Errorf("%w: no digits in start field %q", keyspace.ErrMalformedKey, fields[0])
	}
	second, ok := Trim(fields[1])
	if !ok {
		return rec, fmt.Errorf("%w: no digits in second field %q", keyspace.ErrMalformedKey, fields[1])
	}

	start, err := l.space.Parse(first)
	if err != nil {
		return rec, err
	}
	var end K
	if l.extent {
		end, err = l.space.ExtentEnd(start, second)
	} else {
		end, err = l.space.Parse(second)
	}
	if err != nil {
		return rec, err
	}
	if l.space.Compare(start, end) > 0 {
		return rec, fmt.Errorf("%w: start %s after end %s", keyspace.ErrMalformedKey,
			l.space.Format(start), l.space.Format(end))
	}

	set, err := parseLabels(fields[2:])
	if err != nil {
		return rec, fmt.Errorf("%w: %w", keyspace.ErrMalformedKey, err)
	}
	rec.Start, rec.End, rec.Labels = start, end, set
	return rec, nil
}

// parseLabels reads key=value fields; fields without '=' are ignored.
func parseLabels(fields []string) (labels.Set, error) {
	pairs := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if strings.Contains(f, "=") {
			pairs = append(pairs, f)
		}
	}
	if len(pairs) == 0 {
		return labels.Set{}, nil
	}
	return labels.ConvertSelectorToLabelsMap(strings.Join(pairs, ","))
}

// Trim drops everything before the first digit and after the last one. It
// reports false when s holds no digit at all.
func Trim(s string) (string, bool) {
	first := strings.IndexFunc(s, isDigit)
	if first == -1 {
		return "", false
	}
	last := strings.LastIndexFunc(s, isDigit)
	return s[first : last+1], true
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
