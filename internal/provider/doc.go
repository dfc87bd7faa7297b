// Package provider turns a running provider service into verification
// handlers.
//
// Request/response interactions are replayed as real HTTP requests
// against the provider's base URL. Message interactions are requested
// from a message endpoint: the provider is asked, by description, to
// produce the message it would emit, and the response body and headers
// become the handler output.
package provider
