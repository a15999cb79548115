package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adminschema/internal/store"
)

// GET /api/lint — противоречия в моделях стора
func LintHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		issues := st.Lint()
		c.JSON(http.StatusOK, gin.H{"ok": len(issues) == 0, "issues": issues})
	}
}
