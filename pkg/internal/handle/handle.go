// Package handle implements the HTTP request handlers for the dataset
// store.
package handle

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/geovault/pkg/internal/service"
	"github.com/yeisme/geovault/pkg/rule"
)

// checkActor extracts the acting-user identity. Header first, query second,
// test default outside release mode. Access control is enforced by the
// caller; the identity is only recorded in the audit trail.
func checkActor(c *gin.Context) (string, error) {
	actor := c.GetHeader("X-Actor")
	if actor == "" {
		actor = c.Query("actor")
	}

	if actor == "" && gin.Mode() != gin.ReleaseMode {
		actor = "test-user@example.com"
	}

	actor = strings.TrimSpace(actor)

	if err := rule.ValidateVar(actor, "required,email"); err != nil {
		return "", err
	}

	return actor, nil
}

// paramID parses the numeric id path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id: " + raw})

		return 0, false
	}

	return uint(id), true
}

// readFormFile reads one uploaded file fully into memory.
func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// abortWithServiceError maps typed service errors onto HTTP statuses.
func abortWithServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrDatasetNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrModificationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrDuplicateContentID),
		errors.Is(err, service.ErrCategoryInUse):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidExtension),
		errors.Is(err, service.ErrMissingComment),
		errors.Is(err, service.ErrNoAcceptedDocuments),
		errors.Is(err, service.ErrCategoryResolution),
		service.IsValidationError(err):
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
