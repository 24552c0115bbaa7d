package reactive

// Batch groups writes so every affected listener is notified once, after
// the outermost batch completes.
func Batch(fn func()) {
	gid, ctx := loadTrackingContext()
	ctx.batchDepth++

	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth == 0 {
			flushPending(ctx)
			releaseTrackingContext(gid, ctx)
		}
	}()

	fn()
}

// flushPending notifies queued listeners, deduplicated by ID, in the order
// they were first queued. Listeners queued while flushing are delivered in
// a further pass.
func flushPending(ctx *trackingContext) {
	for len(ctx.pendingUpdates) > 0 {
		updates := ctx.pendingUpdates
		ctx.pendingUpdates = nil

		seen := make(map[uint64]bool, len(updates))
		for _, l := range updates {
			id := l.ID()
			if seen[id] {
				continue
			}
			seen[id] = true
			l.MarkDirty()
		}
	}
}
