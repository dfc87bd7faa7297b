// Package plan compiles CUE verification plans into runnable form.
//
// A plan names the provider under verification, carries run options
// (provider version, publish flag, filters, registry attributes), and
// lists the pacts to verify with their expected interactions. Plans are
// authored in CUE; this package parses them using the CUE SDK's Go API
// directly (not CLI subprocess).
package plan
