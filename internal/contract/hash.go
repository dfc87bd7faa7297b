package contract

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainInteraction = "pactum/interaction/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// InteractionID computes a content-addressed ID for an interaction within
// a pact. The ID is stable across runs given the same consumer, provider,
// and interaction description, which lets the history store correlate
// failures for the same interaction across runs.
//
// The expected payloads are intentionally EXCLUDED: the ID identifies
// "which exchange" (logical identity), not "what was expected of it", so
// it remains stable when a contract's expectations evolve.
func InteractionID(consumer, provider, description string) (string, error) {
	obj := map[string]any{
		"consumer":    consumer,
		"provider":    provider,
		"description": NormalizeDescription(description),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("InteractionID: %w", err)
	}

	return hashWithDomain(DomainInteraction, canonical), nil
}

// MustInteractionID is like InteractionID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustInteractionID(consumer, provider, description string) string {
	id, err := InteractionID(consumer, provider, description)
	if err != nil {
		panic(err)
	}
	return id
}
