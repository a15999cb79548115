package schema

// Базовые действия в порядке, в котором их собирает панель действий.
const (
	ActionList   = "list"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionExport = "export"
	ActionAjax   = "ajax"
	ActionChart  = "chart"
)

var ActionNames = []string{
	ActionList, ActionCreate, ActionEdit, ActionDelete, ActionExport, ActionAjax, ActionChart,
}

const (
	TemplateEditSingle = "edit_single"
	TemplateAjaxBase   = "ajaxbase"
	TemplateFilterForm = "filterform"
)

// ActionTemplates: допустимые шаблоны для каждого действия, первый — по умолчанию.
var ActionTemplates = map[string][]string{
	ActionList:   {"tablebase", "batch_table"},
	ActionCreate: {"formbase"},
	ActionEdit:   {"editbase", TemplateEditSingle},
	ActionDelete: {"button"},
	ActionExport: {"exportbase"},
	ActionAjax:   {TemplateAjaxBase, TemplateFilterForm},
	ActionChart:  {"chartbase"},
}

var FieldTypes = []string{
	"String", "Integer", "Float", "Boolean", "DateTime", "TextArea", "Editor",
	"Select", "SelectMulti", "Radio", "File", "FileMulti", "Image", "ImageMulti",
	"LinkString", "LinkForm", "InlineModel", "Json", "JsonEditor", "Calculation", "SourceForm",
}

var FilterOperators = []string{"$eq", "$like", "$gt", "$lt", "$gte", "$lte", "$in"}

var CustomActionTypes = []string{"ajax", "jump", "alert", "form", "qcr_code"}

// Field-list ключи base_props: упорядоченные подмножества имён полей.
var FieldListKeys = []string{
	"column_list", "form_columns", "edit_form_columns", "ajax_form_columns",
	"filter_form_columns", "column_details_list", "column_editable_list",
	"column_sortable_list", "export_list",
}

// Фильтры base_props: имя поля -> список операторов.
var FilterKeys = []string{"column_filters", "form_filters"}

const (
	TimeoutMin = 1
	TimeoutMax = 120
)
