package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"

	"github.com/henderiw/intervalcov/pkg/config"
	"github.com/henderiw/intervalcov/pkg/coverage"
	"github.com/henderiw/intervalcov/pkg/interval"
	"github.com/henderiw/intervalcov/pkg/keyspace"
	"github.com/henderiw/intervalcov/pkg/loader"
	"github.com/henderiw/intervalcov/pkg/metrics"
	"github.com/henderiw/intervalcov/pkg/render"
)

func run[K any](space keyspace.Space[K], cfg *config.Config, path string, stdout io.Writer, terminal bool, log *slog.Logger) error {
	lo, hi, open, err := scanBounds(space, cfg.Search)
	if err != nil {
		return err
	}
	sel, err := cfg.Selector()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	p := render.NewPrinter(stdout, render.Format(cfg.Output.Format), terminal)
	m := metrics.New(space.Name())

	var echoStart, echoEnd string
	if cfg.Search.Start != "" {
		echoStart = space.Format(lo)
	}
	if cfg.Search.End != "" {
		echoEnd = space.Format(hi)
	}
	p.ScanBounds(echoStart, echoEnd)

	t := interval.New[K](space.Compare)
	ld := loader.New(space,
		loader.WithExtent[K](cfg.Input.Extent),
		loader.WithSelector[K](sel),
		loader.WithLogger[K](log),
	)
	stats, err := ld.LoadFile(path, loader.Into(t))
	if err != nil {
		return err
	}
	log.Info("loaded intervals", "file", path, "key", space.Name(),
		"lines", stats.Lines, "loaded", stats.Loaded, "skipped", stats.Skipped, "filtered", stats.Filtered)
	m.ObserveLoad(stats.Loaded, stats.Skipped, stats.Filtered)
	m.SetTreeNodes(t.Len())
	if open {
		hi = coverage.UpperBound(space, t)
	}

	var spans []render.Span
	for iter := t.Iterate(lo, hi); iter.Next(); {
		spans = append(spans, span(space, iter.Value()))
	}
	p.Nodes(spans)

	if cfg.Output.Verify {
		if err := t.Verify(); err != nil {
			return fmt.Errorf("%w: tree after load: %w", ErrVerification, err)
		}
	}

	loaded := t.Len()
	describer, _ := space.(keyspace.Describer[K])
	agg := coverage.New(space, coverage.WithObserver[K](coverage.ObserverFuncs[K]{
		Cluster: func(c coverage.Cluster[K], running *big.Int) {
			row := render.ClusterRow{
				Window:  span(space, interval.Interval[K]{Start: c.Start, End: c.End}),
				Length:  c.Length,
				Running: new(big.Int).Set(running),
			}
			for _, iv := range c.Members {
				row.Members = append(row.Members, span(space, iv))
			}
			if describer != nil && p.Format() == render.FormatTable {
				row.Note = describer.Describe(c.Start, c.End)
			}
			p.Cluster(row)
			m.ObserveCluster(len(c.Members))
			log.Debug("cluster closed", "start", row.Window.Start, "end", row.Window.End,
				"members", len(c.Members), "length", c.Length.String())
		},
	}))
	res := agg.Compute(t, lo, hi)
	p.Total(res.Total)
	m.SetCovered(res.Total)

	if cfg.Output.Verify {
		if err := verify(space, t, res, loaded, lo, hi, p); err != nil {
			return err
		}
	}

	if cfg.Output.MetricsTextfile != "" {
		if err := m.WriteTextfile(cfg.Output.MetricsTextfile); err != nil {
			return err
		}
		log.Info("wrote metrics", "path", cfg.Output.MetricsTextfile)
	}
	return nil
}

// verify re-derives the total from the drained intervals with a sort-merge
// pass and checks what is left in the tree.
func verify[K any](space keyspace.Space[K], t *interval.Tree[K], res *coverage.Result[K], loaded int, lo, hi K, p *render.Printer) error {
	var drained []interval.Interval[K]
	for _, c := range res.Clusters {
		drained = append(drained, c.Members...)
	}
	merged := coverage.SortMerge(space, drained)
	p.Verified(res.Total, merged)

	var errm error
	if merged.Cmp(res.Total) != 0 {
		errm = errors.Join(errm, fmt.Errorf("sort-merge total %s, tree total %s", merged, res.Total))
	}
	if err := t.Verify(); err != nil {
		errm = errors.Join(errm, fmt.Errorf("tree after coverage: %w", err))
	}
	if len(drained)+t.Len() != loaded {
		errm = errors.Join(errm, fmt.Errorf("%d drained and %d left, want %d", len(drained), t.Len(), loaded))
	}
	if h, ok := t.IterFirst(lo, hi); ok {
		errm = errors.Join(errm, fmt.Errorf("interval %s still overlaps the search range", span(space, t.Get(h))))
	}
	if errm != nil {
		return fmt.Errorf("%w: %w", ErrVerification, errm)
	}
	return nil
}

// scanBounds resolves the search range. open reports that no upper bound
// was given, in which case hi must be widened to the loaded data.
func scanBounds[K any](space keyspace.Space[K], s config.SearchConfig) (lo, hi K, open bool, err error) {
	lo, hi = space.Min(), space.Max()
	switch {
	case s.Range != "":
		lo, hi, err = keyspace.ParseRange(space, s.Range)
		if err != nil {
			return lo, hi, false, fmt.Errorf("%w: --range: %w", ErrUsage, err)
		}
		return lo, hi, false, nil
	case s.Start != "":
		if lo, err = space.Parse(s.Start); err != nil {
			return lo, hi, false, fmt.Errorf("%w: --search-start: %w", ErrUsage, err)
		}
	}
	if s.End == "" {
		return lo, hi, true, nil
	}
	if hi, err = space.Parse(s.End); err != nil {
		return lo, hi, false, fmt.Errorf("%w: --search-end: %w", ErrUsage, err)
	}
	if space.Compare(lo, hi) > 0 {
		return lo, hi, false, fmt.Errorf("%w: search start %s is after search end %s", ErrUsage, space.Format(lo), space.Format(hi))
	}
	return lo, hi, false, nil
}

func span[K any](space keyspace.Space[K], iv interval.Interval[K]) render.Span {
	return render.Span{Start: space.Format(iv.Start), End: space.Format(iv.End)}
}
