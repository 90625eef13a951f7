package main

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-kratos/collect/collector"
	"github.com/go-kratos/collect/topk"
)

type config struct {
	k       int
	numeric bool
	count   bool
}

func newRootCmd() *cobra.Command {
	var cfg config
	cmd := &cobra.Command{
		Use:   "topk [flags] [file...]",
		Short: "Print the k greatest lines of the input",
		Long: `Reads newline separated records from the given files, or stdin when
none are given, and prints the k greatest of them, greatest first.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.k < 0 {
				return fmt.Errorf("topk: k must not be negative, got %d", cfg.k)
			}
			if cfg.numeric && cfg.count {
				return fmt.Errorf("topk: --numeric and --count are mutually exclusive")
			}
			if cfg.count && uint64(cfg.k) > math.MaxUint32 {
				return fmt.Errorf("topk: k too large for --count, got %d", cfg.k)
			}
			return run(cmd, cfg, args)
		},
	}
	cmd.Flags().IntVarP(&cfg.k, "k", "k", 10, "number of records to keep")
	cmd.Flags().BoolVarP(&cfg.numeric, "numeric", "n", false, "compare records as numbers")
	cmd.Flags().BoolVarP(&cfg.count, "count", "c", false, "print the most frequent records with their counts")
	return cmd
}

func run(cmd *cobra.Command, cfg config, paths []string) error {
	out := cmd.OutOrStdout()
	switch {
	case cfg.count:
		hk := topk.NewHeavyKeeper(uint32(cfg.k))
		if err := feed(cmd, paths, hk, (*lineReader).lines); err != nil {
			return err
		}
		for _, item := range hk.List() {
			fmt.Fprintf(out, "%s\t%d\n", item.Key, item.Count)
		}
	case cfg.numeric:
		t := topk.NewOrdered[float64](cfg.k)
		if err := feed(cmd, paths, t, (*lineReader).numbers); err != nil {
			return err
		}
		for _, v := range t.Drain() {
			fmt.Fprintln(out, strconv.FormatFloat(v, 'g', -1, 64))
		}
	default:
		t := topk.NewOrdered[string](cfg.k)
		if err := feed(cmd, paths, t, (*lineReader).lines); err != nil {
			return err
		}
		for _, line := range t.Drain() {
			fmt.Fprintln(out, line)
		}
	}
	return nil
}

// feed drives c with the records of every input in turn, stdin when paths is empty.
func feed[T, U any](cmd *cobra.Command, paths []string, c collector.Collector[T, U], records func(*lineReader) iter.Seq[T]) error {
	if len(paths) == 0 {
		r := newLineReader("stdin", cmd.InOrStdin())
		collector.CollectWith(records(r), c)
		return r.err
	}
	for _, path := range paths {
		if err := feedFile(path, c, records); err != nil {
			return err
		}
	}
	return nil
}

func feedFile[T, U any](path string, c collector.Collector[T, U], records func(*lineReader) iter.Seq[T]) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("topk: open input: %w", err)
	}
	defer f.Close()

	r := newLineReader(path, f)
	collector.CollectWith(records(r), c)
	return r.err
}

// lineReader yields the non blank lines of one input and keeps the error
// that stopped it, if any.
type lineReader struct {
	name    string
	scanner *bufio.Scanner
	line    int
	err     error
}

func newLineReader(name string, r io.Reader) *lineReader {
	return &lineReader{name: name, scanner: bufio.NewScanner(r)}
}

func (r *lineReader) lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for r.scanner.Scan() {
			r.line++
			line := r.scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
		if err := r.scanner.Err(); err != nil {
			r.err = fmt.Errorf("topk: read %s: %w", r.name, err)
		}
	}
}

func (r *lineReader) numbers() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for line := range r.lines() {
			v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
			if err != nil {
				r.err = fmt.Errorf("topk: %s:%d: invalid number %q", r.name, r.line, line)
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
