package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"adminschema/internal/schema"
	"adminschema/internal/serializer"
	"adminschema/internal/store"
	"adminschema/internal/value"
)

func statusForErrors(errs []schema.FieldError) int {
	// 409, если есть конфликтные ошибки (unique/ref)
	for _, e := range errs {
		if e.Code == schema.ErrUniqueViolation || e.Code == schema.ErrRefNotFound {
			return http.StatusConflict
		}
	}
	return http.StatusBadRequest
}

// writeError выбирает статус по типу ошибки стора.
func writeError(c *gin.Context, err error) {
	var (
		ve schema.ValidationErrors
		te *store.TransportError
		ue *serializer.UnsupportedValueError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(statusForErrors(ve), gin.H{"errors": ve})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &te):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream error", "op": te.Op, "details": te.Err.Error()})
	case errors.As(err, &ue):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unsupported value", "path": ue.Path})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// bindObject читает тело как JSON-объект с сохранением порядка ключей.
func bindObject(c *gin.Context) (*value.Object, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return nil, false
	}
	o, err := value.DecodeObject(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON", "details": err.Error()})
		return nil, false
	}
	return o, true
}
