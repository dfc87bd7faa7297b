package report

import (
	"github.com/roach88/pactum/internal/compare"
	"github.com/roach88/pactum/internal/contract"
)

// Event is one recorded reporter event in a serializable shape.
// Diffs are flattened to their sorted mismatch paths so recorded traces
// stay deterministic across runs.
type Event struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Key         string   `json:"key,omitempty"`
	Expected    any      `json:"expected,omitempty"`
	Paths       []string `json:"paths,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Event type constants used by the recorder.
const (
	EventGeneratesMessage  = "generates_message"
	EventBodyMatch         = "body_match"
	EventBodyMismatch      = "body_mismatch"
	EventMetadataMatch     = "metadata_match"
	EventMetadataMismatch  = "metadata_mismatch"
	EventNoHandlerFound    = "no_handler_found"
	EventVerificationError = "verification_error"
	EventFinalize          = "finalize"
)

// Recorder captures the ordered event stream for tests and for golden
// trace comparison in the conformance harness.
type Recorder struct {
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Events returns the recorded events in delivery order.
func (r *Recorder) Events() []Event {
	return r.events
}

// CountByType returns how many events of the given type were recorded.
func (r *Recorder) CountByType(eventType string) int {
	return CountEvents(r.events, eventType)
}

// CountEvents returns how many events of the given type appear in a
// recorded trace.
func CountEvents(events []Event, eventType string) int {
	n := 0
	for _, e := range events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

func (r *Recorder) GeneratesMessage(interaction contract.Interaction) {
	r.events = append(r.events, Event{
		Type:        EventGeneratesMessage,
		Description: interaction.Description,
	})
}

func (r *Recorder) BodyMatch() {
	r.events = append(r.events, Event{Type: EventBodyMatch})
}

func (r *Recorder) BodyMismatch(diff compare.Diff) {
	r.events = append(r.events, Event{
		Type:  EventBodyMismatch,
		Paths: diff.SortedPaths(),
	})
}

func (r *Recorder) MetadataMatch(key string) {
	r.events = append(r.events, Event{Type: EventMetadataMatch, Key: key})
}

func (r *Recorder) MetadataMismatch(key string, expected any, diff compare.Diff) {
	r.events = append(r.events, Event{
		Type:     EventMetadataMismatch,
		Key:      key,
		Expected: expected,
		Paths:    diff.SortedPaths(),
	})
}

func (r *Recorder) NoHandlerFound(interaction contract.Interaction) {
	r.events = append(r.events, Event{
		Type:        EventNoHandlerFound,
		Description: interaction.Description,
	})
}

func (r *Recorder) VerificationError(interaction contract.Interaction, err error, showStacktrace bool) {
	r.events = append(r.events, Event{
		Type:        EventVerificationError,
		Description: interaction.Description,
		Error:       err.Error(),
	})
}

func (r *Recorder) FinalizeReport() {
	r.events = append(r.events, Event{Type: EventFinalize})
}
