package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

// writeError maps domain errors onto HTTP status codes. Capability
// failures are upstream problems and map to 502, bad input to 400,
// everything else to 500.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, core.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicateKey):
		status = http.StatusConflict
	case errors.Is(err, core.ErrTranscription),
		errors.Is(err, core.ErrEmbedding),
		errors.Is(err, core.ErrGeneration):
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
