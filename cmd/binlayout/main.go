// Package main provides the CLI entry point for binlayout: a thin
// demonstration harness over the field/combinator tree, not a general
// binary-inspection tool.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"

	"go.binlayout.dev/binlayout/combinator"
	"go.binlayout.dev/binlayout/layout"
	"go.binlayout.dev/binlayout/log"
	"go.binlayout.dev/binlayout/profiler"
	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/schema"
	"go.binlayout.dev/binlayout/stream"
	"go.binlayout.dev/binlayout/version"
)

func main() {
	logCfg := log.NewConfig()
	describeCfg := NewConfig()

	rootCmd := &cobra.Command{
		Use:           "binlayout",
		Short:         "Describe, parse, and benchmark built-in demo binary layouts",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			handler, err := logCfg.NewHandler(os.Stderr)
			if err != nil {
				return err
			}

			slog.SetDefault(slog.New(handler))

			return nil
		},
	}

	logCfg.RegisterFlags(rootCmd.PersistentFlags())

	if err := logCfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	rootCmd.AddCommand(
		newDescribeCmd(describeCfg),
		newParseCmd(),
		newBenchCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newDescribeCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <layout>",
		Short: "Print the JSON Schema for a built-in demo layout",
		Args:  cobra.ExactArgs(1),
		ValidArgs: layout.Names(),
		RunE: func(_ *cobra.Command, args []string) error {
			return runDescribe(cfg, args[0], os.Stdout)
		},
	}

	cfg.RegisterFlags(cmd.Flags())

	if err := cfg.RegisterCompletions(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	return cmd
}

func runDescribe(cfg *Config, layoutName string, w io.Writer) error {
	f, err := layout.Lookup(layoutName)
	if err != nil {
		return err
	}

	s, err := schema.Describe(f)
	if err != nil {
		return fmt.Errorf("describe %s: %w", layoutName, err)
	}

	out, err := json.MarshalIndent(s, "", indentString(cfg.Indent))
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	out = append(out, '\n')
	_, err = w.Write(out)

	return err
}

func newParseCmd() *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:       "parse <layout> <file>",
		Short:     "Parse a file with a built-in demo layout and print its fields",
		Args:      cobra.ExactArgs(2),
		ValidArgs: layout.Names(),
		RunE: func(_ *cobra.Command, args []string) error {
			return runParse(args[0], args[1], os.Stdout, trace)
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "stream a live parse trace of the layout's root field to stderr")

	return cmd
}

// runParse parses path with the named demo layout. With trace set, the
// layout's root field is wrapped with combinator.Watch over a log.Publisher
// so its trace events are fanned out to a live subscriber printed to
// stderr as they happen, instead of merely logged after the fact. The
// fields inside the layout are not wrapped individually.
func runParse(layoutName, path string, w io.Writer, trace bool) error {
	f, err := layout.Lookup(layoutName)
	if err != nil {
		return err
	}

	var pub *log.Publisher

	if trace {
		pub = log.NewPublisher()
		sub := pub.Subscribe()

		drained := make(chan struct{})

		go func() {
			defer close(drained)

			for line := range sub.C() {
				os.Stderr.Write(line)
			}
		}()

		handler := log.NewHandler(pub, log.LevelDebug, log.FormatText)
		f = combinator.Watch(f, slog.New(handler))

		defer func() {
			_ = pub.Close()
			<-drained
		}()
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	v, err := f.Parse(stream.FromReadSeeker(file), nil)
	if err != nil {
		return fmt.Errorf("parse %s as %s: %w", path, layoutName, err)
	}

	sc, ok := v.(*scope.StructContext)
	if !ok {
		return fmt.Errorf("parse %s as %s: root value is not a structure", path, layoutName)
	}

	printContext(w, sc, 0)

	if layoutName == "bmp" {
		return crossCheckBMP(sc, path)
	}

	return nil
}

// crossCheckBMP decodes path with golang.org/x/image/bmp and fails if the
// parsed tree's Width/Height disagree with the standard decoder's
// image.Config, catching a layout bug the demo parse alone would not.
func crossCheckBMP(sc *scope.StructContext, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	cfg, err := bmp.DecodeConfig(file)
	if err != nil {
		return fmt.Errorf("cross-check %s with image/bmp: %w", path, err)
	}

	gotWidth := int(sc.Int64("Width"))
	gotHeight := int(sc.Int64("Height"))

	if gotWidth != cfg.Width || gotHeight != cfg.Height {
		return fmt.Errorf("width/height mismatch: binlayout parsed %dx%d, image/bmp decoded %dx%d",
			gotWidth, gotHeight, cfg.Width, cfg.Height)
	}

	return nil
}

// printContext renders a parsed structure as indented "key: value" lines —
// just enough to eyeball a demo parse, not a general pretty-printer.
func printContext(w io.Writer, sc *scope.StructContext, depth int) {
	indent := strings.Repeat("  ", depth)

	for _, key := range sc.Keys() {
		v := sc.Value(key)

		switch t := v.(type) {
		case *scope.StructContext:
			fmt.Fprintf(w, "%s%s:\n", indent, key)
			printContext(w, t, depth+1)
		case *scope.ArrayContext:
			fmt.Fprintf(w, "%s%s: [%d items]\n", indent, key, t.Len())

			for i, item := range t.Items() {
				if sub, ok := item.(*scope.StructContext); ok {
					fmt.Fprintf(w, "%s  [%d]:\n", indent, i)
					printContext(w, sub, depth+2)
				} else {
					fmt.Fprintf(w, "%s  [%d]: %v\n", indent, i, item)
				}
			}
		case []byte:
			fmt.Fprintf(w, "%s%s: % x\n", indent, key, t)
		default:
			fmt.Fprintf(w, "%s%s: %v\n", indent, key, t)
		}
	}
}

func newBenchCmd() *cobra.Command {
	prof := profiler.New()

	cmd := &cobra.Command{
		Use:   "bench <layout> <file>",
		Short: "Repeatedly parse a file for local performance investigation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			iterations, err := cmd.Flags().GetInt("iterations")
			if err != nil {
				return err
			}

			return runBench(&prof, args[0], args[1], iterations)
		},
	}

	cmd.Flags().Int("iterations", 1000, "number of times to parse the file")
	prof.RegisterFlags(cmd.Flags())

	return cmd
}

func runBench(prof *profiler.Profiler, layoutName, path string, iterations int) error {
	f, err := layout.Lookup(layoutName)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := prof.Start(); err != nil {
		return fmt.Errorf("start profiling: %w", err)
	}

	defer func() {
		if stopErr := prof.Stop(); stopErr != nil {
			fmt.Fprintf(os.Stderr, "stop profiling: %v\n", stopErr)
		}
	}()

	for range iterations {
		if _, err := f.Parse(stream.FromReadSeeker(bytes.NewReader(data)), nil); err != nil {
			return fmt.Errorf("parse %s as %s: %w", path, layoutName, err)
		}
	}

	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build version metadata",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Printf("version:    %s\n", orUnknown(version.Version))
			fmt.Printf("revision:   %s\n", version.Revision)
			fmt.Printf("branch:     %s\n", orUnknown(version.Branch))
			fmt.Printf("build user: %s\n", orUnknown(version.BuildUser))
			fmt.Printf("build date: %s\n", orUnknown(version.BuildDate))
			fmt.Printf("go version: %s\n", version.GoVersion)
			fmt.Printf("platform:   %s/%s\n", version.GoOS, version.GoArch)

			return nil
		},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}

	return s
}
