// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command asm24 is the batch driver: it assembles each filename argument
// independently, writing up to four output artifacts per input and
// reporting errors to standard error.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/beevik/asm24/asm/config"
	"github.com/beevik/asm24/asm/context"
	"github.com/beevik/asm24/asm/emit"
	"github.com/beevik/asm24/asm/errsink"
	"github.com/beevik/asm24/asm/firstpass"
	"github.com/beevik/asm24/asm/preprocess"
	"github.com/beevik/asm24/asm/secondpass"
)

const banner = "================================================ ERROR REPORT ================================================="

func main() {
	configPath := flag.String("config", "asm24.toml", "path to an optional asm24.toml settings file")
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: asm24 [-config PATH] FILE...")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: loading %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	for _, base := range args {
		assembleFile(base, cfg)
	}
}

// assembleFile runs the full pipeline for one base filename (no extension):
// preprocess -> first pass -> second pass -> emit, aborting after whichever
// stage leaves the error sink non-empty.
func assembleFile(base string, cfg *config.Config) {
	sink := errsink.New()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "assembling %s%s\n", base, cfg.Extensions.Source)
	}

	lines, err := readSourceLines(base+cfg.Extensions.Source, sink)
	if err != nil {
		printErrors(cfg, sink)
		return
	}

	pp := preprocess.New(base, sink, cfg.MaxLineLen)
	pp.Run(lines)

	if !sink.Empty() {
		printErrors(cfg, sink)
		return
	}
	if err := emit.Expanded(base, cfg.Extensions.Expanded, pp.Expanded); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return
	}

	ctx := context.New(base)
	ctx.Sink = sink

	firstpass.Run(ctx, pp.Expanded)
	if !sink.Empty() {
		printErrors(cfg, sink)
		return
	}

	secondpass.Run(ctx)
	if !sink.Empty() {
		printErrors(cfg, sink)
		return
	}

	if err := emit.Object(base, cfg.Extensions.Object, ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return
	}
	if err := emit.Entries(base, cfg.Extensions.Entries, ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return
	}
	if err := emit.Externals(base, cfg.Extensions.Externs, ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return
	}
	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "%s: code=%d data=%d\n", base, ctx.CodeLength(), ctx.DataLength())
	}
}

func readSourceLines(path string, sink *errsink.Sink) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		sink.ReportFileless(errsink.FileOpen, "cannot open %s: %v", path, err)
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		sink.ReportFileless(errsink.FileRead, "error reading %s: %v", path, err)
		return nil, err
	}
	return lines, nil
}

func printErrors(cfg *config.Config, sink *errsink.Sink) {
	if sink.Empty() {
		return
	}
	fmt.Fprintln(os.Stderr, banner)
	for _, e := range sink.Errors() {
		if cfg.Output.Color {
			fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", e.Error())
			continue
		}
		fmt.Fprintln(os.Stderr, e.Error())
	}
	fmt.Fprintln(os.Stderr, banner)
}
