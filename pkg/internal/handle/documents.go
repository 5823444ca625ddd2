package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/geovault/pkg/internal/service"
	"github.com/yeisme/geovault/pkg/internal/types"
	"github.com/yeisme/geovault/pkg/log"
)

// AttachDatasetDocuments stores reference documents from a multipart form
// ("files" entries plus an optional "comment" field).
func AttachDatasetDocuments(c *gin.Context) {
	l := log.Logger()

	actor, err := checkActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})

		return
	}

	req := types.AttachDocumentsRequest{
		Files:   make([]types.DocumentUpload, 0, len(files)),
		Comment: c.PostForm("comment"),
	}

	for _, fh := range files {
		data, err := readFormFile(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

			return
		}

		req.Files = append(req.Files, types.DocumentUpload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	resp, err := service.NewDatasetService(c.Request.Context()).AttachDocuments(c.Request.Context(), id, actor, &req)
	if err != nil {
		l.Warn().Err(err).Uint("dataset_id", id).Msg("document attachment failed")
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListDatasetDocuments lists the attached documents of a dataset.
func ListDatasetDocuments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	resp, err := service.NewDatasetService(c.Request.Context()).ListDocuments(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
