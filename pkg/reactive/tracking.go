package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for a goroutine.
type trackingContext struct {
	// currentOwner owns effects created right now.
	currentOwner *Owner

	// currentListener subscribes to every cell read. nil disables tracking.
	currentListener Listener

	// batchDepth counts nested Batch calls.
	batchDepth int

	// pendingUpdates accumulates listeners to notify when the batch ends.
	pendingUpdates []Listener
}

var trackingContexts sync.Map

// getGoroutineID parses the current goroutine id out of the stack header
// ("goroutine <id> [...").
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func getTrackingContext() *trackingContext {
	_, ctx := loadTrackingContext()
	return ctx
}

// peekTrackingContext returns the goroutine's context without storing a
// new one; reads on a goroutine with no state see the zero context.
func peekTrackingContext() *trackingContext {
	if ctx, ok := trackingContexts.Load(getGoroutineID()); ok {
		return ctx.(*trackingContext)
	}
	return &trackingContext{}
}

func loadTrackingContext() (uint64, *trackingContext) {
	gid := getGoroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return gid, ctx.(*trackingContext)
	}
	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return gid, ctx
}

// idle reports whether ctx carries no state, so dropping it loses nothing.
func (ctx *trackingContext) idle() bool {
	return ctx.currentListener == nil && ctx.currentOwner == nil &&
		ctx.batchDepth == 0 && len(ctx.pendingUpdates) == 0
}

// releaseTrackingContext forgets the goroutine's context once it is idle.
// Goroutine ids are never reused, so an entry left behind would outlive
// its goroutine.
func releaseTrackingContext(gid uint64, ctx *trackingContext) {
	if ctx.idle() {
		trackingContexts.CompareAndDelete(gid, ctx)
	}
}

func getCurrentListener() Listener {
	return peekTrackingContext().currentListener
}

func setCurrentListener(l Listener) Listener {
	gid, ctx := loadTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	releaseTrackingContext(gid, ctx)
	return old
}

func getCurrentOwner() *Owner {
	return peekTrackingContext().currentOwner
}

func setCurrentOwner(o *Owner) *Owner {
	gid, ctx := loadTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	releaseTrackingContext(gid, ctx)
	return old
}

func getBatchDepth() int {
	return peekTrackingContext().batchDepth
}

func queuePendingUpdate(l Listener) {
	ctx := getTrackingContext()
	ctx.pendingUpdates = append(ctx.pendingUpdates, l)
}

// CurrentOwner returns the owner effects would be registered with, or nil.
func CurrentOwner() *Owner {
	return getCurrentOwner()
}

// WithListener runs fn with l as the tracking listener.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// Untracked runs fn without subscribing to anything it reads.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// Tracking reports whether reads on this goroutine currently subscribe.
func Tracking() bool {
	return getCurrentListener() != nil
}
