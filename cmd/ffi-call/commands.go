package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/dynffi/config"
	"github.com/wippyai/dynffi/dylib"
)

var (
	listOpts = struct {
		resolve bool
	}{}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the symbols a manifest declares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest()
			if err != nil {
				return err
			}
			shapes, err := m.Shapes()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Library: %s\n", libraryName(m.Library))
			if listOpts.resolve {
				lib, err := dylib.Load(m.Library, shapes)
				if err != nil {
					return err
				}
				defer lib.Close()
				fmt.Fprintf(out, "Resolved: %d symbols\n", len(lib.Symbols()))
			}
			fmt.Fprintf(out, "\nSymbols:\n")
			for _, s := range shapes {
				fmt.Fprintf(out, "  %s\n", s)
			}
			return nil
		},
	}

	callCmd = &cobra.Command{
		Use:   "call SYMBOL [ARGS...]",
		Short: "Call one symbol",
		Long: `Call one symbol with arguments parsed by its declared parameter types.

Integers accept decimal, 0x hex, 0o octal and 0b binary. "true" and "false"
pass 1 and 0. "null" passes a NULL string or pointer. Pointer parameters
accept 0x addresses.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			defer lib.Close()

			sym, err := lib.Symbol(args[0])
			if err != nil {
				return err
			}
			values, err := parseArgs(sym.Shape().Params, args[1:])
			if err != nil {
				return err
			}

			result, err := sym.Call(values...)
			if err != nil {
				return fmt.Errorf("call %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(result))
			return nil
		},
	}

	schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Print the manifest JSON schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := config.Schema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	tuiCmd = &cobra.Command{
		Use:   "tui",
		Short: "Pick symbols and call them interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("tui needs an interactive terminal")
			}
			m, err := loadManifest()
			if err != nil {
				return err
			}
			return runInteractive(m)
		},
	}
)

func init() {
	listCmd.Flags().BoolVar(&listOpts.resolve, "resolve", false, "load the library and resolve every symbol")
}

func libraryName(path string) string {
	if path == "" {
		return "(running program)"
	}
	return path
}
