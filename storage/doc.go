// Package storage defines the repository interfaces for rooms, transcript
// chunks and questions, together with the serialization helpers shared by
// backends.
//
// The repositories are the only shared state between requests. Chunks and
// questions are insert-only; the similarity search over chunk embeddings
// is expressed as a single repository operation with explicit threshold
// and limit parameters so the retrieval policy lives in one testable
// place.
//
// The storage/badger sub-package provides the BadgerDB implementation.
package storage
