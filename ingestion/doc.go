// Package ingestion provides the pipeline that turns recorded audio into
// searchable chunks.
//
// The Pipeline type runs the full ingestion workflow for one recording:
//   - Transcribing the audio
//   - Embedding the transcription
//   - Persisting the chunk with its vector
//
// Ingestion is all-or-nothing. A failure at any stage leaves storage
// untouched and surfaces the stage's error to the caller.
package ingestion
