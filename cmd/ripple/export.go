package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/ripple/internal/logging"
	"github.com/vango-dev/ripple/internal/tree"
	"github.com/vango-dev/ripple/pkg/export"
	"github.com/vango-dev/ripple/pkg/render"
)

func exportCmd(load configLoader) *cobra.Command {
	var (
		toS3   bool
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render pages to static HTML documents",
		Long: `Render every YAML page in the pages directory to <name>.html.

Documents are written to export.dir, or with --s3 uploaded to
export.bucket. S3 credentials are read from AWS_ACCESS_KEY_ID and
AWS_SECRET_ACCESS_KEY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.Log, cmd.ErrOrStderr())

			pages, err := tree.LoadDir(cfg.Resolve(cfg.Server.PagesDir))
			if err != nil {
				return err
			}

			var pub export.Publisher
			if toS3 {
				s3pub, err := export.S3PublisherFromConfig(cfg.Export)
				if err != nil {
					return err
				}
				pub = s3pub
			} else {
				dir := cfg.Resolve(cfg.Export.Dir)
				if outDir != "" {
					dir = outDir
				}
				pub = export.NewDirPublisher(dir)
			}

			exp := &export.Exporter{
				Renderer: render.NewRenderer(render.RendererConfig{
					Pretty: cfg.Render.Pretty,
					Indent: cfg.Render.Indent,
					Logger: logger,
				}),
				Publisher: pub,
				Logger:    logger,
			}
			res, err := exp.Export(cmd.Context(), pages)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "exported %d pages", len(res.Published))
			return nil
		},
	}

	cmd.Flags().BoolVar(&toS3, "s3", false, "Upload to the configured S3 bucket")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (overrides export.dir)")

	return cmd
}
