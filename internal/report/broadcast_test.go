package report

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pactum/internal/compare"
	"github.com/roach88/pactum/internal/contract"
)

// panicReporter panics on every event to exercise fan-out isolation.
type panicReporter struct{}

func (p *panicReporter) GeneratesMessage(contract.Interaction) { panic("boom") }
func (p *panicReporter) BodyMatch()                            { panic("boom") }
func (p *panicReporter) BodyMismatch(compare.Diff)             { panic("boom") }
func (p *panicReporter) MetadataMatch(string)                  { panic("boom") }
func (p *panicReporter) MetadataMismatch(string, any, compare.Diff) {
	panic("boom")
}
func (p *panicReporter) NoHandlerFound(contract.Interaction) { panic("boom") }
func (p *panicReporter) VerificationError(contract.Interaction, error, bool) {
	panic("boom")
}
func (p *panicReporter) FinalizeReport() { panic("boom") }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBroadcast_DeliversInRegistrationOrder(t *testing.T) {
	first := NewRecorder()
	second := NewRecorder()
	b := NewBroadcast(discardLogger(), first, second)

	b.BodyMatch()
	b.MetadataMatch("content-type")

	require.Len(t, first.Events(), 2)
	require.Len(t, second.Events(), 2)
	assert.Equal(t, first.Events(), second.Events())
	assert.Equal(t, EventBodyMatch, first.Events()[0].Type)
	assert.Equal(t, EventMetadataMatch, first.Events()[1].Type)
}

func TestBroadcast_PanickingReporterDoesNotBlockOthers(t *testing.T) {
	rec := NewRecorder()
	b := NewBroadcast(discardLogger(), &panicReporter{}, rec)

	inter := contract.Interaction{Description: "an order created event"}
	assert.NotPanics(t, func() {
		b.GeneratesMessage(inter)
		b.BodyMismatch(compare.Diff{"a": compare.Mismatch{Message: "values differ"}})
		b.FinalizeReport()
	})

	require.Len(t, rec.Events(), 3)
	assert.Equal(t, EventGeneratesMessage, rec.Events()[0].Type)
	assert.Equal(t, EventBodyMismatch, rec.Events()[1].Type)
	assert.Equal(t, EventFinalize, rec.Events()[2].Type)
}

func TestBroadcast_FinalizeExactlyOnce(t *testing.T) {
	rec := NewRecorder()
	b := NewBroadcast(discardLogger(), rec)

	b.FinalizeReport()
	b.FinalizeReport()

	assert.Equal(t, 1, rec.CountByType(EventFinalize))
}

func TestBroadcast_RegisterAppends(t *testing.T) {
	b := NewBroadcast(discardLogger())
	rec := NewRecorder()
	b.Register(rec)

	b.BodyMatch()

	assert.Equal(t, 1, rec.CountByType(EventBodyMatch))
}
