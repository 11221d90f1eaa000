package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/dynffi"
	"github.com/wippyai/dynffi/config"
	"github.com/wippyai/dynffi/dylib"
)

var (
	rootOpts = struct {
		manifest string
		library  string
		verbose  bool
	}{}

	rootCmd = &cobra.Command{
		Use:   "ffi-call",
		Short: "Call shared library functions described by a manifest",
		Long: `ffi-call binds native functions from a shared library using a YAML or JSON
manifest of symbol shapes and calls them with arguments given on the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log := zap.NewNop()
			if rootOpts.verbose {
				var err error
				if log, err = zap.NewDevelopment(); err != nil {
					return fmt.Errorf("create logger: %w", err)
				}
			}
			dylib.SetLogger(log)
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.manifest, "manifest", "m", "", "manifest file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&rootOpts.library, "lib", "", "library path, overrides the manifest")
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.verbose, "verbose", "v", false, "log library loading to stderr")

	rootCmd.AddCommand(listCmd, callCmd, schemaCmd, tuiCmd)
}

// loadManifest reads the manifest named by --manifest and applies --lib.
func loadManifest() (*config.Manifest, error) {
	if rootOpts.manifest == "" {
		return nil, fmt.Errorf("no manifest given, use --manifest")
	}
	m, err := config.Load(rootOpts.manifest)
	if err != nil {
		return nil, err
	}
	if rootOpts.library != "" {
		m.Library = rootOpts.library
	}
	return m, nil
}

// openLibrary loads the library named by --manifest and --lib.
func openLibrary() (*dylib.Library, error) {
	if rootOpts.manifest == "" {
		return nil, fmt.Errorf("no manifest given, use --manifest")
	}
	if rootOpts.library != "" {
		return dynffi.OpenLibrary(rootOpts.manifest, rootOpts.library)
	}
	return dynffi.Open(rootOpts.manifest)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
