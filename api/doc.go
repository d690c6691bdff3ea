// Package api exposes the HTTP surface for rooms, audio ingestion and
// question answering.
//
// Routes:
//
//	POST   /rooms                      create a room
//	GET    /rooms                      list rooms
//	DELETE /rooms/:roomId              delete a room and its contents
//	POST   /rooms/:roomId/audio        ingest an audio recording (multipart)
//	POST   /rooms/:roomId/questions    ask a question
//	GET    /rooms/:roomId/questions    list a room's questions
//	GET    /health                     liveness probe
package api
