package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adminschema/internal/importer"
	"adminschema/internal/logger"
	"adminschema/internal/store"
)

type Options struct {
	CatalogPath string
	Parser      importer.SourceParser
	Logger      *zap.Logger
}

// NewRouter собирает gin-движок со всеми маршрутами.
func NewRouter(st *store.Store, opts Options) *gin.Engine {
	if opts.Parser == nil {
		opts.Parser = importer.JSONParser{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.L()
	}
	r := gin.New()
	r.Use(logger.Gin(opts.Logger), gin.Recovery())

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/meta", MetaHandler())
		apiGroup.GET("/lint", LintHandler(st))
		apiGroup.POST("/admin/reload", AdminReloadHandler(st, opts.CatalogPath))

		// статические "служебные" маршруты — СНАЧАЛА
		apiGroup.GET("/current", CurrentHandler(st))
		apiGroup.POST("/models/_load", LoadHandler(st))
		apiGroup.POST("/import_folder", ImportFolderHandler(st, opts.Parser))
		apiGroup.POST("/sync", SyncHandler(st))

		// модели
		apiGroup.GET("/models", ListHandler(st))
		apiGroup.POST("/models", CreateHandler(st))
		apiGroup.GET("/models/:id", GetOneHandler(st))
		apiGroup.DELETE("/models/:id", DeleteHandler(st))
		apiGroup.POST("/models/:id/select", SelectHandler(st))
		apiGroup.PUT("/models/:id/basic", BasicConfigHandler(st))
		apiGroup.PUT("/models/:id/actions", ActionsHandler(st))
		apiGroup.PUT("/models/:id/parent", AssignParentHandler(st))
		apiGroup.PUT("/models/:id/base_props", BasePropsHandler(st))
		apiGroup.GET("/models/:id/base_props/applicable", ApplicableHandler(st))
		apiGroup.POST("/models/:id/save", SaveHandler(st))
		apiGroup.POST("/models/:id/export", ExportHandler(st))
		apiGroup.GET("/models/:id/render", RenderHandler(st))

		// поля
		apiGroup.POST("/models/:id/fields", AddFieldHandler(st))
		apiGroup.PUT("/models/:id/fields/:fieldId", UpdateFieldHandler(st))
		apiGroup.DELETE("/models/:id/fields/:fieldId", RemoveFieldHandler(st))
		apiGroup.POST("/models/:id/fields/:fieldId/move", MoveFieldHandler(st))

		// пользовательские действия
		apiGroup.POST("/models/:id/custom_actions", AddCustomActionHandler(st))
		apiGroup.PUT("/models/:id/custom_actions/:actionId", UpdateCustomActionHandler(st))
		apiGroup.DELETE("/models/:id/custom_actions/:actionId", RemoveCustomActionHandler(st))

		// меню родителей
		apiGroup.GET("/parent_menus", ParentMenusHandler(st))
		apiGroup.POST("/parent_menus", AddParentMenuHandler(st))
		apiGroup.PUT("/parent_menus/:name", RenameParentMenuHandler(st))
		apiGroup.DELETE("/parent_menus/:name", RemoveParentMenuHandler(st))
	}
	return r
}

func RunServer(addr string, st *store.Store, opts Options) error {
	return NewRouter(st, opts).Run(addr)
}
