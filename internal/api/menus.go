package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adminschema/internal/schema"
	"adminschema/internal/store"
)

// GET /api/parent_menus
func ParentMenusHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, st.ParentMenus())
	}
}

// POST /api/parent_menus
func AddParentMenuHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req schema.ParentMenu
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		if err := st.AddParentMenu(req); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, st.ParentMenus())
	}
}

// PUT /api/parent_menus/:name — переименование с переписыванием моделей
func RenameParentMenuHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req schema.ParentMenu
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		if err := st.RenameParentMenu(c.Param("name"), req.Label, req.Name); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, st.ParentMenus())
	}
}

// DELETE /api/parent_menus/:name — модели остаются, их parent очищается
func RemoveParentMenuHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.RemoveParentMenu(c.Param("name")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, st.ParentMenus())
	}
}
