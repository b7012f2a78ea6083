package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for the describe subcommand, the same
// customizable-flag-name pattern magicschema.Flags uses.
type Flags struct {
	Indent string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{Flags: f}
}

// Config holds describe subcommand flag values.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Flags  Flags
	Indent int
}

// NewConfig returns a new [Config] with default flag names and a 2-space
// indent.
func NewConfig() *Config {
	f := Flags{Indent: "indent"}

	cfg := f.NewConfig()
	cfg.Indent = 2

	return cfg
}

// RegisterFlags adds describe flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.IntVar(&c.Indent, c.Flags.Indent, c.Indent, "JSON indentation spaces")
}

// RegisterCompletions registers shell completions for describe flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.Indent, noFileComp)
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Indent, err)
	}

	return nil
}

// indentString renders n spaces for json.MarshalIndent, mirroring
// magicschema's cmd's own indent handling.
func indentString(n int) string {
	indent := ""
	for range n {
		indent += " "
	}

	return indent
}
