package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/geovault/pkg/internal/handle"
)

// RegisterDatasetRoutes registers the dataset catalog routes.
func RegisterDatasetRoutes(g *gin.RouterGroup) {
	datasetRoutes := g.Group("/datasets")
	{
		// ingest a new dataset (multipart: fields + content file + icon)
		datasetRoutes.POST("", handle.CreateDataset)
		// list / filter the catalog
		datasetRoutes.GET("", handle.ListDatasets)

		singleGroup := datasetRoutes.Group("/:id")
		{
			singleGroup.GET("", handle.GetDataset)
			// stored feature-collection document
			singleGroup.GET("/content", handle.GetDatasetContent)
			// partial metadata update, version unchanged
			singleGroup.PUT("", handle.UpdateDatasetMetadata)
			// replace only the features array, version +1
			singleGroup.PUT("/features", handle.ReplaceDatasetFeatures)
			// replace the whole document, version +1
			singleGroup.PUT("/content", handle.ReplaceDatasetContent)
			// visibility toggle
			singleGroup.PATCH("/active", handle.ToggleDatasetActive)
			singleGroup.POST("/archive", handle.ArchiveDataset)
			singleGroup.POST("/restore", handle.RestoreDataset)
			// hard removal
			singleGroup.DELETE("", handle.DeleteDataset)

			// attached reference documents
			singleGroup.POST("/documents", handle.AttachDatasetDocuments)
			singleGroup.GET("/documents", handle.ListDatasetDocuments)

			// audit trail
			singleGroup.GET("/modifications", handle.ListDatasetModifications)
		}
	}
}
