package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/logconv"
	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
	"github.com/spf13/pflag"
)

type ConvCommand struct {
	InStream  io.Reader
	OutStream io.Writer
	ErrStream io.Writer
	Now       func() time.Time
}

var defaultConvCommand = &ConvCommand{
	InStream:  os.Stdin,
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
	Now:       time.Now,
}

const ConvHelp = `carbonwatch conv -- Convert carbonwatch log file to other format

Usage: carbonwatch conv [OPTIONS...] [INPUT...]

Options:
  -o, --output=PATH   Output file. (default stdout)

  -c, --csv           Convert to CSV. (default format)
  -j, --json          Convert to JSON.
  -l, --ltsv          Convert to LTSV.
  -x, --xlsx          Convert to XLSX.

  -s, --since=TIME    Drop records before TIME, in RFC3339.
  -e, --until=TIME    Drop records at or after TIME, in RFC3339.

  -h, --help          Show this help message and exit.
`

func (c ConvCommand) Run(args []string) int {
	flags := pflag.NewFlagSet("carbonwatch conv", pflag.ContinueOnError)
	flags.Usage = func() {}

	outputPath := flags.StringP("output", "o", "", "Output file")

	toCsv := flags.BoolP("csv", "c", false, "Convert to CSV")
	toJson := flags.BoolP("json", "j", false, "Convert to JSON")
	toLtsv := flags.BoolP("ltsv", "l", false, "Convert to LTSV")
	toXlsx := flags.BoolP("xlsx", "x", false, "Convert to XLSX")

	sinceStr := flags.StringP("since", "s", "", "Drop records before this time")
	untilStr := flags.StringP("until", "e", "", "Drop records at or after this time")

	help := flags.BoolP("help", "h", false, "Show this message and exit")

	if err := flags.Parse(args[2:]); err != nil {
		fmt.Fprintln(c.ErrStream, err)
		fmt.Fprintf(c.ErrStream, "\nPlease see `%s %s -h` for more information.\n", args[0], args[1])
		return 2
	}

	if *help {
		fmt.Fprint(c.OutStream, ConvHelp)
		return 0
	}

	count := 0
	for _, f := range []bool{*toCsv, *toJson, *toLtsv, *toXlsx} {
		if f {
			count++
		}
	}
	if count > 1 {
		fmt.Fprintln(c.ErrStream, "error: flags for output format can not use multiple in the same time.")
		return 2
	}

	since := time.Time{}
	until := time.Unix(2<<61, 0)
	for _, p := range []struct {
		Name string
		Raw  string
		Dest *time.Time
	}{{"since", *sinceStr, &since}, {"until", *untilStr, &until}} {
		if p.Raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, p.Raw)
		if err != nil {
			fmt.Fprintf(c.ErrStream, "error: invalid --%s: %q is not RFC3339 time.\n", p.Name, p.Raw)
			return 2
		}
		*p.Dest = t
	}

	open := func(r io.ReadCloser) api.LogScanner {
		return api.NewLogScannerWithPeriod(r, since, until)
	}

	var scanners jointScanner
	defer (&scanners).Close()
	for _, path := range flags.Args() {
		if path == "" || path == "-" {
			scanners = append(scanners, open(io.NopCloser(c.InStream)))
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(c.ErrStream, "error: failed to open input log file: %s\n", err)
			return 1
		}
		scanners = append(scanners, open(f))
	}
	if len(scanners) == 0 {
		scanners = append(scanners, open(io.NopCloser(c.InStream)))
	}

	output := c.OutStream
	if *outputPath != "" && *outputPath != "-" {
		f, err := os.Create(*outputPath)
		if err != nil {
			fmt.Fprintf(c.ErrStream, "error: failed to open output file: %s\n", err)
			return 1
		}
		defer f.Close()
		output = f
	} else if *toXlsx && isTerminal(output) {
		fmt.Fprintln(c.ErrStream, "error: can not write xlsx format to terminal. please redirect or use -o option.")
		return 2
	}

	var err error
	switch {
	case *toJson:
		err = logconv.ToJSON(output, &scanners)
	case *toLtsv:
		err = logconv.ToLTSV(output, &scanners)
	case *toXlsx:
		err = logconv.ToXlsx(output, &scanners, c.Now())
	default:
		err = logconv.ToCSV(output, &scanners)
	}
	if err != nil {
		fmt.Fprintf(c.ErrStream, "error: %s\n", err)
		return 1
	}
	return 0
}

// jointScanner reads the scanners one after another.
type jointScanner []api.LogScanner

func (ss *jointScanner) Scan() bool {
	for len(*ss) > 0 {
		if (*ss)[0].Scan() {
			return true
		}
		(*ss)[0].Close()
		*ss = (*ss)[1:]
	}
	return false
}

func (ss *jointScanner) Record() api.Record {
	return (*ss)[0].Record()
}

func (ss *jointScanner) Close() error {
	for _, s := range *ss {
		s.Close()
	}
	return nil
}
