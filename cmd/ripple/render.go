package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/ripple/internal/errors"
	"github.com/vango-dev/ripple/internal/logging"
	"github.com/vango-dev/ripple/internal/tree"
	"github.com/vango-dev/ripple/pkg/render"
)

func renderCmd(load configLoader) *cobra.Command {
	var (
		pretty   bool
		document bool
	)

	cmd := &cobra.Command{
		Use:   "render <file.yaml>",
		Short: "Render a YAML element tree to HTML",
		Long: `Render a YAML element tree to HTML on standard output.

With --document the tree becomes the body of a complete HTML
document titled after the file name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.Log, cmd.ErrOrStderr())

			value, err := tree.LoadFile(args[0])
			if err != nil {
				return err
			}

			pretty = pretty || cfg.Render.Pretty
			r := render.NewRenderer(render.RendererConfig{
				Pretty: pretty,
				Indent: cfg.Render.Indent,
				Logger: logger,
			})

			out := cmd.OutOrStdout()
			if document {
				name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				if err := r.RenderPage(out, render.PageData{Title: name, Body: value}); err != nil {
					return errors.FromError(err, "E001")
				}
				return nil
			}
			if err := r.RenderToWriter(out, value); err != nil {
				return errors.FromError(err, "E001")
			}
			if pretty {
				// Pretty output already ends each element with a newline.
				return nil
			}
			_, err = out.Write([]byte("\n"))
			return err
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the output")
	cmd.Flags().BoolVarP(&document, "document", "d", false, "Wrap the tree in a full HTML document")

	return cmd
}
