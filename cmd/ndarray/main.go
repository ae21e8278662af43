// Package main provides the ndarray CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/born-ml/ndarray/serialization"
	"github.com/born-ml/ndarray/tensor"
)

const version = "v0.0.1-dev"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if len(os.Args) < 2 {
		usage(os.Stdout)
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("ndarray %s\n", version)
	case "demo":
		if err := runDemo(os.Stdout, os.Args[2:]); err != nil {
			logger.Error("demo failed", "err", err)
			os.Exit(1)
		}
	case "inspect":
		if err := runInspect(os.Stdout, os.Args[2:]); err != nil {
			logger.Error("inspect failed", "err", err)
			os.Exit(1)
		}
	default:
		logger.Error("unknown command", "command", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "ndarray - N-dimensional arrays for Go")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  demo       Run the indexing and broadcasting walkthrough")
	fmt.Fprintln(w, "  inspect    List the tensors of a .safetensors file")
}

func runInspect(w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.Errorf("inspect: expected one file, got %d arguments", len(args))
	}
	f, err := serialization.ReadFile(args[0])
	if err != nil {
		return err
	}

	meta := f.Metadata()
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		fmt.Fprintf(w, "# %s: %s\n", k, meta[k])
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDTYPE\tSHAPE\tBYTES")
	for _, name := range f.Names() {
		info, err := f.Info(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", name, info.DType, tensor.Shape(info.Shape), info.Size())
	}
	return tw.Flush()
}

func runDemo(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	layoutName := fs.String("layout", "row_major", "storage layout of the sample tensors (row_major or column_major)")
	precision := fs.Int("precision", 8, "fractional digits for floats")
	if err := fs.Parse(args); err != nil {
		return err
	}
	layout, err := tensor.ParseLayout(*layoutName)
	if err != nil {
		return err
	}
	opts := tensor.DefaultPrintOptions()
	opts.Precision = *precision

	return demo(w, layout, opts)
}

func demo(w io.Writer, layout tensor.Layout, opts tensor.PrintOptions) error {
	show := func(label string, e tensor.Expr[int]) {
		fmt.Fprintf(w, "%s\n%s\n\n", label, tensor.Format(e, opts))
	}

	a, err := tensor.FromSlice([]int{7, 13, 19, 11, 5, 8, -2, 7, 11, 3}, tensor.Shape{10}, layout)
	if err != nil {
		return err
	}
	idx, err := tensor.FromSlice([]int{9, 4, 0, 7, 5}, tensor.Shape{5}, layout)
	if err != nil {
		return err
	}
	show("a", a)

	taken, err := tensor.Take[int, int](a, idx)
	if err != nil {
		return err
	}
	show("take(a, [9 4 0 7 5])", taken)

	mask, err := tensor.Greater[int](a, tensor.Scalar(10))
	if err != nil {
		return err
	}
	big, err := tensor.Compress[int](a, mask)
	if err != nil {
		return err
	}
	show("compress(a > 10, a)", big)

	b := a.Clone()
	vals, err := tensor.FromSlice([]int{10, 20, 30, 40, 50}, tensor.Shape{5}, layout)
	if err != nil {
		return err
	}
	if err := tensor.Put[int, int](b, idx, vals); err != nil {
		return err
	}
	show("put(a, [9 4 0 7 5], [10 20 30 40 50])", b)

	z, err := tensor.Zeros[int](tensor.Shape{1, 1}, layout)
	if err != nil {
		return err
	}
	bz, err := tensor.BroadcastTo(z, tensor.Shape{3, 5})
	if err != nil {
		return err
	}
	show("broadcast_to([[0]], (3, 5))", bz)

	col, err := tensor.FromSlice([]int{0, 10, 20}, tensor.Shape{3, 1}, layout)
	if err != nil {
		return err
	}
	row, err := tensor.FromSlice([]int{1, 2, 3, 4}, tensor.Shape{1, 4}, layout)
	if err != nil {
		return err
	}
	sum, err := tensor.Add[int](col, row)
	if err != nil {
		return err
	}
	show("(3,1) + (1,4)", sum)

	lin, err := tensor.Linspace(0.0, 1.0, 5)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "linspace(0, 1, 5)\n%s\n", tensor.Format[float64](lin, opts))
	return nil
}
