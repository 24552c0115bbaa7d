// Package server serves pages over HTTP, both as server-rendered documents
// and as live sessions that stream DOM patches over a WebSocket.
//
// # Routes
//
//	GET /                 index of registered pages
//	GET /pages/{name}     the page rendered to a complete HTML document
//	GET /view/{name}      a shell document that connects to /live/{name}
//	GET /live/{name}      WebSocket: FrameHTML, then FramePatches per update
//	GET /client.js        the patch applier used by /view
//	GET /healthz          liveness
//	GET /metrics          Prometheus, when enabled
//
// Every route runs behind middleware.Tracing and middleware.Metrics.
//
// # Live Sessions
//
// A live session mounts the page into a server-held container with the
// DOM renderer. The initial contents go out as one FrameHTML. Every DOM
// write made afterwards is translated into a protocol.Patch addressed by
// child-index path, and the patches of one Scope.Update are sent as one
// FramePatches frame.
//
// Cells read by a live page must be written inside Scope.Update. Updates
// of one session are serialized and batched, so each frame reflects a
// consistent tree. Goroutines started with Scope.Go stop when the client
// disconnects; the mounted tree is disposed after they return.
//
// # Example Usage
//
//	srv := server.New(cfg,
//	    server.WithPage("clock", func(sc *server.Scope) any {
//	        now := reactive.NewCell(time.Now())
//	        sc.Go(func(ctx context.Context) {
//	            t := time.NewTicker(time.Second)
//	            defer t.Stop()
//	            for {
//	                select {
//	                case <-ctx.Done():
//	                    return
//	                case v := <-t.C:
//	                    sc.Update(func() { now.Set(v) })
//	                }
//	            }
//	        })
//	        return vdom.P(func() any { return now.Get().Format(time.TimeOnly) })
//	    }),
//	)
//	srv.Run(ctx)
package server
