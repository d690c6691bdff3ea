// Package googleai implements the ai interfaces against the Gemini API,
// which serves all three capabilities Lectern needs: multimodal
// transcription, text embeddings and answer generation. One client is
// created per provider and shared across the services.
package googleai
