package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/milk9111/seatgrid/layout"
	"github.com/milk9111/seatgrid/layoutfile"
	"github.com/milk9111/seatgrid/numbering"
)

func load(name string) (*layout.Layout, error) {
	s, err := layoutfile.Load(name)
	if err != nil {
		return nil, err
	}
	l, err := layout.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return l, nil
}

func runConvert(args []string, stdout io.Writer) error {
	fs := newFlags("convert", stdout)
	to := fs.StringP("to", "t", "", "output format (default: from the output extension)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usagef("convert: want <in> <out>, use - for stdout")
	}
	in, out := fs.Arg(0), fs.Arg(1)

	l, err := load(in)
	if err != nil {
		return err
	}
	s := layout.Encode(l)

	var f layoutfile.Format
	switch {
	case *to != "":
		f, err = layoutfile.ParseFormat(*to)
	case out == "-":
		f = layoutfile.FormatJSON
	default:
		f, err = layoutfile.FormatFor(out)
	}
	if err != nil {
		return err
	}

	data, err := layoutfile.Marshal(s, f)
	if err != nil {
		return err
	}
	if out == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s (%s, %d bytes)\n", out, f, len(data))
	return nil
}

func runInspect(args []string, stdout io.Writer) error {
	fs := newFlags("inspect", stdout)
	plain := fs.Bool("plain", false, "print the grid without colour")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("inspect: want <layout>")
	}
	l, err := load(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, gridView(l, !*plain))
	fmt.Fprintln(stdout, summary(l))
	return nil
}

func runNumber(args []string, stdout io.Writer) error {
	fs := newFlags("number", stdout)
	script := fs.StringP("script", "s", "sequential", "numbering script file or builtin name")
	start := fs.Int("start", 0, "first number (default 1, or one past the highest seat for keep)")
	out := fs.StringP("out", "o", "", "output file (default: overwrite the input file)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("number: want <layout>")
	}
	in := fs.Arg(0)
	l, err := load(in)
	if err != nil {
		return err
	}
	sc, err := numbering.Load(*script)
	if err != nil {
		return err
	}
	// keep only renames unnamed seats, so it continues after the existing numbers.
	first := *start
	if first <= 0 && *script == "keep" {
		first = max(l.HighestSeatNumber, numbering.MaxNumber(l)) + 1
	}
	n, err := numbering.Apply(l, sc, numbering.Options{Start: first})
	if err != nil {
		return err
	}
	dest := *out
	if dest == "" {
		dest = in
	}
	if err := layoutfile.Write(dest, layout.Encode(l)); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "numbered %d seats, highest %d, wrote %s\n", n, l.HighestSeatNumber, dest)
	return nil
}

func runValidate(args []string, stdout io.Writer) error {
	fs := newFlags("validate", stdout)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return usagef("validate: want at least one layout")
	}
	var errs []error
	for _, name := range fs.Args() {
		l, err := load(name)
		if err != nil {
			fmt.Fprintf(stdout, "FAIL %s: %v\n", name, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(stdout, "ok   %s (%dx%d)\n", name, l.Width, l.Height)
	}
	return errors.Join(errs...)
}

func runSamples(args []string, stdout io.Writer) error {
	fmt.Fprintln(stdout, "layouts:")
	for _, name := range layoutfile.Samples() {
		fmt.Fprintf(stdout, "  %s\n", name)
	}
	fmt.Fprintln(stdout, "numbering scripts:")
	for _, name := range numbering.Builtin() {
		fmt.Fprintf(stdout, "  %s\n", name)
	}
	return nil
}
