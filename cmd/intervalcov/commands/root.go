// Package commands implements the intervalcov command line.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/henderiw/intervalcov/pkg/config"
	"github.com/henderiw/intervalcov/pkg/keyspace"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// ErrUsage marks errors caused by the command line itself.
var ErrUsage = errors.New("usage error")

// ErrVerification is returned by --verify when the tree or the coverage
// total fails a consistency check.
var ErrVerification = errors.New("verification failed")

const long = `Loads (start, end) pairs from a csv file into an interval tree and prints
the total space referenced by those pairs, counting overlapping stretches once.

Lines that do not hold two usable values are skipped. Extra k=v fields after
the second column become labels that --selector can match against.`

type rootOptions struct {
	configPath string
	dumpConfig bool
}

// NewRootCommand builds the intervalcov command writing results to stdout
// and diagnostics to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "intervalcov [flags] file",
		Short: "Count the key space covered by a set of intervals",
		Long:  long,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.dumpConfig {
				return nil
			}
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return fmt.Errorf("%w: %w", ErrUsage, err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("%w: %w", ErrUsage, err)
			}
			if opts.dumpConfig {
				b, err := cfg.Dump()
				if err != nil {
					return err
				}
				_, err = stdout.Write(b)
				return err
			}
			log := newLogger(cfg.Logging, stderr)
			return dispatch(cfg, args[0], stdout, isTerminal(stdout), log)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	f := cmd.Flags()
	f.BoolP("extent", "e", false, "load values in extent format (start, len)")
	f.StringP("search-start", "S", "", "start search from this value (defaults to the smallest key)")
	f.StringP("search-end", "E", "", "end search at this value (defaults to the largest key)")
	f.String("range", "", "search range as start-end, instead of -S/-E")
	f.String("key", keyspace.KindUint64, "key kind: "+strings.Join(keyspace.Kinds, ", "))
	f.String("selector", "", "only load lines whose labels match this selector, e.g. 'pool=a,tier!=cold'")
	f.String("output", "auto", "output format: auto, plain or table")
	f.Bool("verify", false, "check the tree invariants and cross-check the total with a sort-merge pass")
	f.String("metrics-textfile", "", "write run metrics in the Prometheus text format to this file")
	f.String("log-level", "warn", "log level: debug, info, warn or error")
	f.String("log-format", "text", "log format: text or json")
	f.StringVar(&opts.configPath, "config", "", "read settings from this YAML file")
	f.BoolVar(&opts.dumpConfig, "dump-config", false, "print the effective configuration and exit")

	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(stdout, stderr)
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(stderr, "Error: %v\n\n%s", err, cmd.UsageString())
		return exitUsage
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}

func dispatch(cfg *config.Config, path string, stdout io.Writer, terminal bool, log *slog.Logger) error {
	switch cfg.Input.Key {
	case keyspace.KindUint64:
		return run[uint64](keyspace.Uint64{}, cfg, path, stdout, terminal, log)
	case keyspace.KindDecimal:
		return run[string](keyspace.Decimal{}, cfg, path, stdout, terminal, log)
	case keyspace.KindIPv4:
		return run[netip.Addr](keyspace.IPv4{}, cfg, path, stdout, terminal, log)
	default:
		return fmt.Errorf("%w: %w: %q", ErrUsage, config.ErrInvalidKey, cfg.Input.Key)
	}
}

func newLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelWarn
	}
	hopts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
