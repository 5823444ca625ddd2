package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/geovault/pkg/internal/service"
	"github.com/yeisme/geovault/pkg/internal/types"
	"github.com/yeisme/geovault/pkg/log"
	"github.com/yeisme/geovault/pkg/rule"
)

// CreateDataset ingests a new dataset from a multipart form: metadata
// fields plus the feature-collection file under "content" and an optional
// icon under "icon".
func CreateDataset(c *gin.Context) {
	l := log.Logger()

	actor, err := checkActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	var req types.CreateDatasetRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid create request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	fh, err := c.FormFile("content")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content file is required"})

		return
	}

	if req.Content, err = readFormFile(fh); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if iconFh, err := c.FormFile("icon"); err == nil {
		if req.IconMap, err = readFormFile(iconFh); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

			return
		}

		if req.Icon == "" {
			req.Icon = iconFh.Filename
		}
	}

	if err := rule.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	resp, err := service.NewDatasetService(c.Request.Context()).Create(c.Request.Context(), actor, &req)
	if err != nil {
		l.Warn().Err(err).Str("name", req.Name).Msg("dataset creation failed")
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetDataset returns the catalog projection of one dataset.
func GetDataset(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	resp, err := service.NewDatasetService(c.Request.Context()).Get(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetDatasetContent returns the stored feature-collection document.
func GetDatasetContent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	doc, err := service.NewDatasetService(c.Request.Context()).GetContent(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, doc)
}

// ListDatasets returns a filtered catalog page.
func ListDatasets(c *gin.Context) {
	var req types.ListDatasetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	resp, err := service.NewDatasetService(c.Request.Context()).List(c.Request.Context(), &req)
	if err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateDatasetMetadata applies a partial metadata update.
func UpdateDatasetMetadata(c *gin.Context) {
	actor, err := checkActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req types.UpdateDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	resp, err := service.NewDatasetService(c.Request.Context()).UpdateMetadata(c.Request.Context(), id, actor, &req)
	if err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ReplaceDatasetFeatures swaps the features array of the stored document.
func ReplaceDatasetFeatures(c *gin.Context) {
	actor, err := checkActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req types.ReplaceFeaturesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	resp, err := service.NewDatasetService(c.Request.Context()).ReplaceFeatures(c.Request.Context(), id, actor, &req)
	if err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ReplaceDatasetContent swaps the whole stored document via multipart
// upload ("content" file plus "comment" field).
func ReplaceDatasetContent(c *gin.Context) {
	actor, err := checkActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	fh, err := c.FormFile("content")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content file is required"})

		return
	}

	req := types.ReplaceContentRequest{Comment: c.PostForm("comment")}

	if req.Content, err = readFormFile(fh); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	resp, err := service.NewDatasetService(c.Request.Context()).ReplaceContent(c.Request.Context(), id, actor, &req)
	if err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ToggleDatasetActive flips dataset visibility.
func ToggleDatasetActive(c *gin.Context) {
	actor, err := checkActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req types.ToggleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	resp, err := service.NewDatasetService(c.Request.Context()).ToggleActive(c.Request.Context(), id, actor, &req)
	if err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

type commentBody struct {
	Comment string `json:"comment"`
}

// ArchiveDataset marks a dataset archived.
func ArchiveDataset(c *gin.Context) {
	archiveOrRestore(c, true)
}

// RestoreDataset clears the archived flag.
func RestoreDataset(c *gin.Context) {
	archiveOrRestore(c, false)
}

func archiveOrRestore(c *gin.Context, archive bool) {
	actor, err := checkActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body commentBody
	_ = c.ShouldBindJSON(&body) // comment is optional

	svc := service.NewDatasetService(c.Request.Context())

	var resp *types.DatasetResponse
	if archive {
		resp, err = svc.Archive(c.Request.Context(), id, actor, body.Comment)
	} else {
		resp, err = svc.Restore(c.Request.Context(), id, actor, body.Comment)
	}

	if err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteDataset hard-removes a dataset.
func DeleteDataset(c *gin.Context) {
	actor, err := checkActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body commentBody
	_ = c.ShouldBindJSON(&body)

	if err := service.NewDatasetService(c.Request.Context()).Delete(c.Request.Context(), id, actor, body.Comment); err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
