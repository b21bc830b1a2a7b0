// Command asm14 assembles 14-bit-word source files into object, entries,
// and externals files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/halevi-tools/asm14/config"
	"github.com/halevi-tools/asm14/pipeline"
	"github.com/halevi-tools/asm14/writer"
)

var (
	jobs    = flag.Int("j", 1, "process up to N input files concurrently")
	keepAM  = flag.Bool("keep-am", false, "keep the intermediate .am file after a successful run")
	verbose = flag.Bool("v", false, "enable verbose per-stage tracing")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if flag.NArg() == 0 {
		log.Println("Usage: asm14 [options] FILE1 FILE2 …")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := config.Load("asm14.toml"); err != nil {
		log.Printf("asm14.toml: %v (continuing with defaults)", err)
	}

	trace := zerolog.Nop()
	if *verbose {
		trace = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	var anyFailed atomic.Bool
	var g errgroup.Group
	g.SetLimit(max(*jobs, 1))

	for _, name := range flag.Args() {
		g.Go(func() error {
			if !processFile(name, trace) {
				anyFailed.Store(true)
			}
			return nil
		})
	}
	_ = g.Wait()

	if anyFailed.Load() {
		os.Exit(1)
	}
}

// processFile runs the full pipeline over one source file (path without
// extension) and writes its artifacts. It returns false if the file
// produced any diagnostic; per spec.md §6.1, one file's failure never
// aborts the run, so the caller just records it.
func processFile(name string, trace zerolog.Logger) bool {
	trace.Info().Str("file", name).Msg("reading source")

	src, err := os.ReadFile(name + ".as")
	if err != nil {
		log.Printf("%s: %v", name, err)
		return false
	}
	lines := strings.Split(strings.TrimRight(string(src), "\n"), "\n")

	trace.Info().Str("file", name).Msg("expanding macros, running first and second pass")
	result := pipeline.Assemble(name, lines)
	for _, d := range result.Bag.Items() {
		fmt.Println(d.String())
	}

	amPath := name + ".am"
	if len(result.Expanded) > 0 {
		if err := os.WriteFile(amPath, []byte(strings.Join(result.Expanded, "\n")+"\n"), 0644); err != nil {
			log.Printf("%s: writing intermediate file: %v", name, err)
			return false
		}
	}

	if !result.OK {
		os.Remove(amPath)
		return false
	}

	trace.Info().Str("file", name).Msg("writing artifacts")
	if err := writer.WriteAll(name, result.Unit); err != nil {
		log.Printf("%s: %v", name, err)
		return false
	}

	if !*keepAM {
		os.Remove(amPath)
	}
	return true
}

