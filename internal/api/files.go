package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"adminschema/internal/importer"
	"adminschema/internal/store"
)

type importReq struct {
	FolderPath string   `json:"folder_path"`
	Extensions []string `json:"extensions"`
}

// POST /api/import_folder
func ImportFolderHandler(st *store.Store, parser importer.SourceParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req importReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON"})
			return
		}
		folder := strings.TrimSpace(req.FolderPath)
		res, err := importer.ImportFolder(c.Request.Context(), folder, parser, req.Extensions...)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		added := st.ImportModels(res.Schemas, res.ParentMenus, folder)
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"schemas":       added,
			"parent_menus":  res.ParentMenus,
			"message":       res.Message(),
			"total_files":   res.TotalFiles,
			"success_count": res.SuccessCount(),
			"failed_count":  res.FailedCount(),
			"failed_files":  res.FailedFiles,
		})
	}
}

// POST /api/sync — записать канонический текст в исходные файлы моделей
func SyncHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		rep, err := st.SyncToFiles(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"success_count": rep.SuccessCount,
			"failed_count":  rep.FailedCount,
			"details":       rep.Results,
			"message":       rep.Message(),
		})
	}
}
