// Package answering provides retrieval-grounded question answering over a
// room's ingested chunks.
//
// The Answerer type runs the full answering workflow for one question:
//   - Embedding the question text
//   - Retrieving the most similar chunks of the room
//   - Generating an answer grounded in the retrieved context
//
// When no chunk clears the similarity threshold, the question is recorded
// as unanswered and the generator is never invoked.
package answering
