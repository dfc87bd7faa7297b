package report

import (
	"log/slog"

	"github.com/roach88/pactum/internal/compare"
	"github.com/roach88/pactum/internal/contract"
)

// Broadcast fans every event out to an ordered set of reporters.
//
// Delivery is synchronous and follows registration order. Each reporter
// call is individually isolated: one reporter panicking on an event must
// not prevent delivery to the next reporter, and must not abort the
// verification run.
//
// Broadcast itself implements Reporter, so it can stand anywhere a
// single reporter is expected.
type Broadcast struct {
	reporters []Reporter
	logger    *slog.Logger
	finalized bool
}

// NewBroadcast creates a fan-out over the given reporters.
// A nil logger falls back to slog.Default().
func NewBroadcast(logger *slog.Logger, reporters ...Reporter) *Broadcast {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcast{reporters: reporters, logger: logger}
}

// Register appends a reporter. Order of registration is order of delivery.
func (b *Broadcast) Register(r Reporter) {
	b.reporters = append(b.reporters, r)
}

// each delivers one event to every reporter with per-call isolation.
func (b *Broadcast) each(event string, deliver func(Reporter)) {
	for i, r := range b.reporters {
		b.deliverIsolated(event, i, r, deliver)
	}
}

// deliverIsolated invokes one reporter, converting a panic into a log
// line so remaining reporters still receive the event.
func (b *Broadcast) deliverIsolated(event string, idx int, r Reporter, deliver func(Reporter)) {
	defer func() {
		if rec := recover(); rec != nil {
			b.logger.Error("reporter panicked, continuing fan-out",
				"event", event,
				"reporter_index", idx,
				"panic", rec,
			)
		}
	}()
	deliver(r)
}

func (b *Broadcast) GeneratesMessage(interaction contract.Interaction) {
	b.each("generates-message", func(r Reporter) { r.GeneratesMessage(interaction) })
}

func (b *Broadcast) BodyMatch() {
	b.each("body-match", func(r Reporter) { r.BodyMatch() })
}

func (b *Broadcast) BodyMismatch(diff compare.Diff) {
	b.each("body-mismatch", func(r Reporter) { r.BodyMismatch(diff) })
}

func (b *Broadcast) MetadataMatch(key string) {
	b.each("metadata-match", func(r Reporter) { r.MetadataMatch(key) })
}

func (b *Broadcast) MetadataMismatch(key string, expected any, diff compare.Diff) {
	b.each("metadata-mismatch", func(r Reporter) { r.MetadataMismatch(key, expected, diff) })
}

func (b *Broadcast) NoHandlerFound(interaction contract.Interaction) {
	b.each("no-handler-found", func(r Reporter) { r.NoHandlerFound(interaction) })
}

func (b *Broadcast) VerificationError(interaction contract.Interaction, err error, showStacktrace bool) {
	b.each("verification-error", func(r Reporter) { r.VerificationError(interaction, err, showStacktrace) })
}

// FinalizeReport finalizes every reporter exactly once. Subsequent calls
// are no-ops, which keeps the end-of-run invariant even when a caller's
// cleanup path runs twice.
func (b *Broadcast) FinalizeReport() {
	if b.finalized {
		return
	}
	b.finalized = true
	b.each("finalize", func(r Reporter) { r.FinalizeReport() })
}
