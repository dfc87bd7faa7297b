package verifier

import (
	"context"
	"fmt"

	"github.com/roach88/pactum/internal/contract"
)

// verifyMessageHandler invokes one handler for a message interaction,
// normalizes its return value, and compares payload and metadata
// independently. Both diffs must be empty for the handler's contribution
// to pass.
func (v *Verifier) verifyMessageHandler(ctx context.Context, interaction contract.Interaction, h Handler, res *InteractionResult) {
	v.reporter.GeneratesMessage(interaction)

	raw, err := h(ctx)
	if err != nil {
		v.recordError(interaction, fmt.Errorf("invoke handler: %w", err), res)
		return
	}

	out := Normalize(raw)

	diff, err := v.comparator.Compare(interaction.Payload, out.Payload)
	if err != nil {
		v.recordError(interaction, fmt.Errorf("compare payload: %w", err), res)
		return
	}
	if diff.Empty() {
		v.reporter.BodyMatch()
	} else {
		v.reporter.BodyMismatch(diff)
		res.fail(bodyKey(interaction), FailureDetail{Diff: diff})
	}

	// Metadata is evaluated independently of the payload outcome, but
	// only when the contract expects any.
	if len(interaction.Metadata) == 0 {
		return
	}

	metaDiffs, err := v.comparator.CompareMetadata(interaction.Metadata, out.Metadata)
	if err != nil {
		v.recordError(interaction, fmt.Errorf("compare metadata: %w", err), res)
		return
	}

	for _, key := range sortedDiffKeys(metaDiffs) {
		keyDiff := metaDiffs[key]
		if keyDiff.Empty() {
			v.reporter.MetadataMatch(key)
			continue
		}
		v.reporter.MetadataMismatch(key, interaction.Metadata[key], keyDiff)
		res.fail(metadataKey(interaction, key), FailureDetail{Diff: keyDiff})
	}
}
