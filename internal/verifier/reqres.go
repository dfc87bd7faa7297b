package verifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/pactum/internal/contract"
)

// verifyRequestResponseHandler invokes one handler for a
// request/response interaction. The handler is expected to return a
// map-shaped actual response ("status", "headers", "body"); status and
// body are compared structurally as one unit, headers key by key.
func (v *Verifier) verifyRequestResponseHandler(ctx context.Context, interaction contract.Interaction, h Handler, res *InteractionResult) {
	if interaction.Response == nil {
		v.recordError(interaction, fmt.Errorf("interaction has no expected response"), res)
		return
	}

	raw, err := h(ctx)
	if err != nil {
		v.recordError(interaction, fmt.Errorf("invoke handler: %w", err), res)
		return
	}

	actual, ok := raw.(map[string]any)
	if !ok {
		v.recordError(interaction, fmt.Errorf("request/response handler returned %T, want a map-shaped response", raw), res)
		return
	}

	expBytes, err := contract.MarshalCanonical(expectedResponseMap(interaction.Response))
	if err != nil {
		v.recordError(interaction, fmt.Errorf("canonicalize expected response: %w", err), res)
		return
	}
	actBytes, err := contract.MarshalCanonical(actualResponseMap(actual))
	if err != nil {
		v.recordError(interaction, fmt.Errorf("canonicalize actual response: %w", err), res)
		return
	}

	diff, err := v.comparator.Compare(expBytes, actBytes)
	if err != nil {
		v.recordError(interaction, fmt.Errorf("compare response: %w", err), res)
		return
	}
	if diff.Empty() {
		v.reporter.BodyMatch()
	} else {
		v.reporter.BodyMismatch(diff)
		res.fail(bodyKey(interaction), FailureDetail{Diff: diff})
	}

	if len(interaction.Response.Headers) == 0 {
		return
	}

	expectedHeaders := make(map[string]any, len(interaction.Response.Headers))
	for k, val := range interaction.Response.Headers {
		expectedHeaders[k] = val
	}

	headerDiffs, err := v.comparator.CompareMetadata(expectedHeaders, headerMap(actual["headers"]))
	if err != nil {
		v.recordError(interaction, fmt.Errorf("compare headers: %w", err), res)
		return
	}

	for _, key := range sortedDiffKeys(headerDiffs) {
		keyDiff := headerDiffs[key]
		if keyDiff.Empty() {
			v.reporter.MetadataMatch(key)
			continue
		}
		v.reporter.MetadataMismatch(key, expectedHeaders[key], keyDiff)
		res.fail(headerKey(interaction, key), FailureDetail{Diff: keyDiff})
	}
}

// expectedResponseMap builds the comparison shape for the expected
// response: status plus the body (decoded when it is JSON, textual
// otherwise). Headers are compared separately.
func expectedResponseMap(resp *contract.Response) map[string]any {
	m := map[string]any{"status": resp.Status}
	if len(resp.Body) > 0 {
		m["body"] = decodeBody(resp.Body)
	}
	return m
}

// actualResponseMap projects the handler's map-shaped response onto the
// same comparison shape as expectedResponseMap.
func actualResponseMap(actual map[string]any) map[string]any {
	m := map[string]any{}
	if status, ok := actual["status"]; ok {
		m["status"] = status
	}
	if body, ok := actual["body"]; ok && body != nil {
		if raw, isBytes := body.([]byte); isBytes {
			m["body"] = decodeBody(raw)
		} else {
			m["body"] = body
		}
	}
	return m
}

// decodeBody parses JSON bodies into structured values so byte-level
// formatting differences do not count as mismatches; non-JSON bodies
// compare as text.
func decodeBody(raw []byte) any {
	if json.Valid(raw) {
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
	}
	return string(raw)
}

// headerMap coerces the handler's headers value into a metadata-shaped
// map. Unknown shapes compare as empty (every expected header missing).
func headerMap(v any) map[string]any {
	switch h := v.(type) {
	case map[string]any:
		return h
	case map[string]string:
		m := make(map[string]any, len(h))
		for k, val := range h {
			m[k] = val
		}
		return m
	default:
		return map[string]any{}
	}
}
