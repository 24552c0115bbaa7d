// Package export renders pages to complete HTML documents and publishes
// them to a directory or an S3 bucket.
package export

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vango-dev/ripple/internal/errors"
	"github.com/vango-dev/ripple/pkg/render"
)

// Exporter renders pages with the string renderer and publishes each as
// <name>.html.
type Exporter struct {
	Renderer  *render.Renderer
	Publisher Publisher
	Logger    *slog.Logger
}

// Result lists what an export published and what failed.
type Result struct {
	Published []string
	Failed    []string
}

// Export publishes every page in name order. A page value is either a
// render.PageData or body content, which gets the name as its title.
// A failing page does not stop the others; the returned error joins all
// failures under code E300.
func (e *Exporter) Export(ctx context.Context, pages map[string]any) (Result, error) {
	r := e.Renderer
	if r == nil {
		r = render.NewRenderer(render.RendererConfig{})
	}
	log := e.Logger
	if log == nil {
		log = slog.Default()
	}

	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		res  Result
		errs []error
	)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		key := name + ".html"
		if err := e.exportOne(ctx, r, key, name, pages[name]); err != nil {
			log.Error("export failed", "page", name, "error", err)
			res.Failed = append(res.Failed, key)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		log.Info("exported", "page", name, "key", key)
		res.Published = append(res.Published, key)
	}

	if len(errs) > 0 {
		return res, errors.New("E300").Wrap(stderrors.Join(errs...))
	}
	return res, nil
}

func (e *Exporter) exportOne(ctx context.Context, r *render.Renderer, key, name string, page any) error {
	data, ok := page.(render.PageData)
	if !ok {
		data = render.PageData{Title: name, Body: page}
	}

	var buf bytes.Buffer
	if err := r.RenderPage(&buf, data); err != nil {
		return err
	}
	return e.Publisher.Publish(ctx, key, buf.Bytes())
}
