package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/ripple/internal/config"
	"github.com/vango-dev/ripple/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	errors.ConfigureColors(os.Stderr)
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "ripple",
		Short: "Render and serve reactive element trees",
		Long: `Ripple renders element trees to HTML and keeps mounted trees live.

Pages are YAML element trees. They can be rendered to a string,
exported as static documents, or served with live sessions that
stream DOM patches over a WebSocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to ripple.yaml or its directory")

	load := func() (*config.Config, error) {
		return loadConfig(configPath)
	}

	rootCmd.AddCommand(
		renderCmd(load),
		serveCmd(load),
		exportCmd(load),
		versionCmd(),
	)
	return rootCmd
}

type configLoader func() (*config.Config, error)

// loadConfig reads the config at path. With no path it searches upward
// from the working directory and falls back to defaults when no
// ripple.yaml exists.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return config.Load(path)
		}
		return config.LoadFile(path)
	}

	root, err := config.FindProjectRoot(".")
	if err != nil {
		var re *errors.RippleError
		if stderrors.As(err, &re) && re.Code == "E100" {
			return config.New(), nil
		}
		return nil, err
	}
	return config.LoadFile(filepath.Join(root, config.ConfigFileName))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
