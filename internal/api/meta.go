package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adminschema/internal/schema"
	"adminschema/internal/serializer"
)

// ===== META HANDLERS =====

type metaAction struct {
	Name      string   `json:"name"`
	Templates []string `json:"templates"`
}

type metaVocabulary struct {
	Actions           []metaAction `json:"actions"`
	FieldTypes        []string     `json:"field_types"`
	FilterOperators   []string     `json:"filter_operators"`
	CustomActionTypes []string     `json:"custom_action_types"`
	BaseProps         []string     `json:"base_props"`
	FieldOrder        []string     `json:"field_order"`
	Timeout           [2]int       `json:"timeout_range"`
}

// GET /api/meta — словари для редактора
func MetaHandler() gin.HandlerFunc {
	actions := make([]metaAction, 0, len(schema.ActionNames))
	for _, name := range schema.ActionNames {
		actions = append(actions, metaAction{Name: name, Templates: schema.ActionTemplates[name]})
	}
	vocab := metaVocabulary{
		Actions:           actions,
		FieldTypes:        schema.FieldTypes,
		FilterOperators:   schema.FilterOperators,
		CustomActionTypes: schema.CustomActionTypes,
		BaseProps:         serializer.BasePropsOrder,
		FieldOrder:        serializer.FieldOrder,
		Timeout:           [2]int{schema.TimeoutMin, schema.TimeoutMax},
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, vocab)
	}
}
