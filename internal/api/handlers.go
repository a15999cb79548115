package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adminschema/internal/schema"
	"adminschema/internal/store"
)

// GET /api/models
func ListHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		models := st.List()
		cur, _ := st.Current()
		curID := ""
		if cur != nil {
			curID = cur.ID
		}
		c.JSON(http.StatusOK, gin.H{"models": models, "current": curID})
	}
}

// POST /api/models
func CreateHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusCreated, st.Create())
	}
}

// POST /api/models/_load — перечитать модели из репозитория
func LoadHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		models, err := st.LoadAll(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"models": models, "count": len(models)})
	}
}

// GET /api/models/:id
func GetOneHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := st.Get(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

// DELETE /api/models/:id
func DeleteHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// POST /api/models/:id/select
func SelectHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.Select(c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GET /api/current
func CurrentHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := st.Current()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "No model selected"})
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

// PUT /api/models/:id/basic
func BasicConfigHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req store.BasicConfig
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		respond(c, st, c.Param("id"), st.SaveBasicConfig(c.Param("id"), req))
	}
}

// PUT /api/models/:id/actions
func ActionsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req []schema.Action
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		respond(c, st, c.Param("id"), st.SetActions(c.Param("id"), req))
	}
}

// PUT /api/models/:id/parent
func AssignParentHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req schema.ParentMenu
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		respond(c, st, c.Param("id"), st.AssignToParent(c.Param("id"), req))
	}
}

// POST /api/models/:id/fields
func AddFieldHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := bindObject(c)
		if !ok {
			return
		}
		f, err := fieldFromBody(body)
		if err != nil {
			writeError(c, err)
			return
		}
		added, err := st.AddField(c.Param("id"), f)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, added)
	}
}

// PUT /api/models/:id/fields/:fieldId
func UpdateFieldHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := bindObject(c)
		if !ok {
			return
		}
		f, err := fieldFromBody(body)
		if err != nil {
			writeError(c, err)
			return
		}
		f.ID = c.Param("fieldId")
		respond(c, st, c.Param("id"), st.UpdateField(c.Param("id"), f))
	}
}

// DELETE /api/models/:id/fields/:fieldId
func RemoveFieldHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, st, c.Param("id"), st.RemoveField(c.Param("id"), c.Param("fieldId")))
	}
}

type moveReq struct {
	Position *int `json:"position"`
}

// POST /api/models/:id/fields/:fieldId/move
func MoveFieldHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req moveReq
		if err := c.ShouldBindJSON(&req); err != nil || req.Position == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "position is required"})
			return
		}
		respond(c, st, c.Param("id"), st.MoveField(c.Param("id"), c.Param("fieldId"), *req.Position))
	}
}

// PUT /api/models/:id/base_props — тело целиком заменяет base_props
func BasePropsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		in, ok := bindObject(c)
		if !ok {
			return
		}
		clamped, err := st.SaveBaseProps(id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		m, err := st.Get(id)
		if err != nil {
			writeError(c, err)
			return
		}
		out := gin.H{"model": m, "clamped": clamped}
		if clamped {
			out["message"] = "timeout adjusted to the allowed range 1-120"
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /api/models/:id/base_props/applicable[?key=...]
func ApplicableHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if key := c.Query("key"); key != "" {
			ok, err := st.IsBasePropApplicable(id, key)
			if err != nil {
				writeError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"key": key, "applicable": ok})
			return
		}
		keys, err := st.ApplicableBaseProps(id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"keys": keys})
	}
}

// POST /api/models/:id/custom_actions
func AddCustomActionHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var a schema.CustomAction
		if err := c.ShouldBindJSON(&a); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON", "details": err.Error()})
			return
		}
		added, err := st.AddCustomAction(c.Param("id"), a)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, added)
	}
}

// PUT /api/models/:id/custom_actions/:actionId
func UpdateCustomActionHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var a schema.CustomAction
		if err := c.ShouldBindJSON(&a); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON", "details": err.Error()})
			return
		}
		a.ID = c.Param("actionId")
		respond(c, st, c.Param("id"), st.UpdateCustomAction(c.Param("id"), a))
	}
}

// DELETE /api/models/:id/custom_actions/:actionId
func RemoveCustomActionHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, st, c.Param("id"), st.RemoveCustomAction(c.Param("id"), c.Param("actionId")))
	}
}

// POST /api/models/:id/save
func SaveHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, st, c.Param("id"), st.Save(c.Request.Context(), c.Param("id")))
	}
}

// POST /api/models/:id/export — через Generator, текст для буфера обмена
func ExportHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		text, err := st.Export(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"schema": text})
	}
}

// GET /api/models/:id/render — локальный рендер, text/plain
func RenderHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		text, err := st.Render(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
	}
}

// respond отдаёт модель после успешной мутации.
func respond(c *gin.Context, st *store.Store, id string, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	m, err := st.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
