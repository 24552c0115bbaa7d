package main

import (
	"context"
	"strconv"
	"time"

	"github.com/vango-dev/ripple/pkg/reactive"
	"github.com/vango-dev/ripple/pkg/render"
	"github.com/vango-dev/ripple/pkg/server"
	"github.com/vango-dev/ripple/pkg/vdom"
)

// demoPages are served next to the YAML pages. They are the only pages
// whose live sessions change after mounting.
func demoPages(interval time.Duration) map[string]server.Page {
	return map[string]server.Page{
		"clock":   clockPage(interval, time.Now),
		"counter": counterPage(interval),
	}
}

func clockPage(interval time.Duration, now func() time.Time) server.Page {
	return func(sc *server.Scope) any {
		format := func(t time.Time) string { return t.UTC().Format(time.TimeOnly) }
		current := reactive.NewCell(format(now()))

		sc.Go(func(ctx context.Context) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					sc.Update(func() { current.Set(format(now())) })
				}
			}
		})

		return render.PageData{
			Title: "Clock",
			Body: vdom.Div(vdom.Class("clock"),
				vdom.H1("UTC"),
				vdom.P(vdom.Data("time", current), vdom.Strong(current)),
			),
		}
	}
}

func counterPage(interval time.Duration) server.Page {
	return func(sc *server.Scope) any {
		count := reactive.NewCell(0)
		parity := reactive.NewMemo(func() string {
			if count.Get()%2 == 0 {
				return "even"
			}
			return "odd"
		})
		// Last three values, newest first.
		recent := reactive.Thunk(func() any {
			n := count.Get()
			var items []any
			for i := n; i > n-3 && i >= 0; i-- {
				items = append(items, vdom.Li(strconv.Itoa(i)))
			}
			return items
		})

		sc.Go(func(ctx context.Context) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					sc.Update(func() { count.Update(func(n int) int { return n + 1 }) })
				}
			}
		})

		return render.PageData{
			Title: "Counter",
			Body: vdom.Div(vdom.Class("counter"),
				vdom.P(vdom.Prop("class", parity), vdom.Span("count "), vdom.Strong(count)),
				vdom.Ul(recent),
			),
		}
	}
}
