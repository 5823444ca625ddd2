package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/geovault/pkg/internal/service"
	"github.com/yeisme/geovault/pkg/internal/types"
)

// ListDatasetModifications returns the audit trail of one dataset, newest
// first. Works for deleted datasets too.
func ListDatasetModifications(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	resp, err := service.NewModificationService(c.Request.Context()).ListByDataset(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// EditModificationComment corrects the comment of one audit entry.
func EditModificationComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req types.EditModificationCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := service.NewModificationService(c.Request.Context()).EditComment(c.Request.Context(), id, &req); err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": id})
}
