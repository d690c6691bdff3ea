// Package mock provides test doubles for the ai interfaces.
//
// The mocks default to deterministic behavior (hash-seeded embeddings,
// fingerprint-derived transcriptions, canned answers) so tests are stable
// without any external service, and expose function fields plus
// CallCount/Reset for behavior injection and assertions.
package mock
