package handle

import (
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/geovault/pkg/internal/geo"
	"github.com/yeisme/geovault/pkg/internal/service"
	"github.com/yeisme/geovault/pkg/internal/types"
	"github.com/yeisme/geovault/pkg/log"
)

// ConvertDataset runs heterogeneous input through the conversion pipeline.
// Multipart requests carry the raw file under "file", the mapping as a JSON
// string under "mapping" and an optional "delimiter"; JSON requests carry a
// types.ConvertRequest body with inline rows.
func ConvertDataset(c *gin.Context) {
	l := log.Logger()

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		convertUpload(c)

		return
	}

	var req types.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	resp, err := service.NewConvertService(c.Request.Context()).Convert(c.Request.Context(), &req)
	if err != nil {
		l.Warn().Err(err).Msg("conversion failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}

func convertUpload(c *gin.Context) {
	l := log.Logger()

	var mapping geo.FieldMapping
	if err := sonic.UnmarshalString(c.PostForm("mapping"), &mapping); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid field mapping: " + err.Error()})

		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "input file is required"})

		return
	}

	raw, err := readFormFile(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewConvertService(c.Request.Context())

	var resp *types.ConvertResponse

	// geojson uploads take the geographic path, everything else is
	// delimited text
	if strings.HasSuffix(strings.ToLower(fh.Filename), ".geojson") ||
		strings.HasSuffix(strings.ToLower(fh.Filename), ".json") {
		resp, err = svc.Convert(c.Request.Context(), &types.ConvertRequest{
			Mapping:    mapping,
			Collection: raw,
		})
	} else {
		resp, err = svc.ConvertDelimited(c.Request.Context(), raw, c.PostForm("delimiter"), mapping)
	}

	if err != nil {
		l.Warn().Err(err).Str("file", fh.Filename).Msg("conversion failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}
