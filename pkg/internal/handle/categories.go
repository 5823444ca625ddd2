package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/geovault/pkg/internal/service"
	"github.com/yeisme/geovault/pkg/internal/types"
)

// ListCategories returns every category with its dataset count.
func ListCategories(c *gin.Context) {
	resp, err := service.NewCategoryService(c.Request.Context()).List(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateCategory adds a named grouping.
func CreateCategory(c *gin.Context) {
	var req types.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	resp, err := service.NewCategoryService(c.Request.Context()).Create(c.Request.Context(), &req)
	if err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusCreated, resp)
}

// DeleteCategory removes a category; blocked while datasets reference it.
func DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := service.NewCategoryService(c.Request.Context()).Delete(c.Request.Context(), id); err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
