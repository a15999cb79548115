package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"adminschema/internal/catalog"
	"adminschema/internal/store"
)

type reloadReq struct {
	CatalogPath string `json:"catalog_path"` // YAML файл или папка с меню родителей
}

// POST /api/admin/reload — перечитать каталог меню и модели из репозитория
func AdminReloadHandler(st *store.Store, defaultCatalog string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reloadReq
		if err := c.ShouldBindJSON(&req); err != nil && err != http.ErrBodyNotAllowed && c.Request.ContentLength > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		catalogPath := strings.TrimSpace(req.CatalogPath)
		if catalogPath == "" {
			catalogPath = defaultCatalog
		}

		// 1) читаем каталог до любых изменений
		menus, err := catalog.Load(catalogPath)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Catalog load error", "details": err.Error()})
			return
		}

		// 2) модели: при сбое стор не меняется
		models, err := st.LoadAll(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		st.SetParentMenus(menus)

		issues := st.Lint()
		c.JSON(http.StatusOK, gin.H{
			"ok":          len(issues) == 0,
			"catalogPath": catalogPath,
			"models":      len(models),
			"parentMenus": len(st.ParentMenus()),
			"issues":      issues,
		})
	}
}
