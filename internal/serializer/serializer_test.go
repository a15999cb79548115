package serializer

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminschema/internal/value"
)

var obj = value.ObjectOf

func userModel() *value.Object {
	return obj(
		"name", "user",
		"label", "User",
		"entry", "list",
		"action", []any{obj("name", "list", "template", "tablebase")},
		"fields", []any{obj("name", "email", "label", "Email", "type", "String")},
		"base_props", obj("column_list", []any{"email"}),
	)
}

func fullModel() *value.Object {
	return obj(
		"status", "active",
		"createdAt", "2024-01-01T00:00:00Z",
		"custom_actions", []any{
			obj("label", "重置密码", "action_name", "reset_pwd", "extra", "x", "action", "ajax", "params", obj("id", "id")),
		},
		"base_props", obj(
			"custom_style", obj("detail_style", "table", "submit_alert", true),
			"column_list", []any{"email", "status", "created_at"},
			"submit_style", obj("type", "alert", "alert_content", "确认提交?"),
			"page_size", float64(20),
			"timeout", obj("list", 30, "create", 120),
			"explain", "用户列表",
			"form_submit_style", true,
			"column_sortable_list", []any{"email", "status", "created_at", "updated_at", "last_login_at", "nickname"},
			"column_filters", obj("status", []any{"$eq", "$in"}, "created_at", []any{"$gte", "$lte"}),
			"form_columns", []any{"email", "status"},
			"not_a_prop", "dropped",
		),
		"fields", []any{
			obj("name", "email", "label", "Email", "copy_rule", obj(), "type", "String", "placeholder", "请输入邮箱"),
			obj(
				"name", "status", "label", "状态", "type", "Select",
				"render_kw", obj("readonly", true),
				"choices", []any{[]any{float64(1), "启用"}, []any{float64(0), "停用"}},
				"coerce", "int",
				"copy_rule", "关闭",
			),
			obj(
				"name", "created_at", "label", "创建时间", "type", "DateTime",
				"show_rule", obj("name", "status", "hideis", "0", "value", "1"),
				"validators", []any{obj("name", "DataRequired")},
			),
		},
		"action", []any{
			obj("name", "list", "template", "tablebase"),
			obj("name", "create", "template", "createbase"),
			obj("name", "edit", "template", "edit_single"),
		},
		"parent", obj("label", "Sys", "name", "system"),
		"entry", "list",
		"primary_key", "id",
		"label", "User",
		"name", "user",
	)
}

func TestSerializeFullModelGolden(t *testing.T) {
	out, err := Serialize(fullModel())
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "full_model", []byte(out))
}

func TestSerializeUserModel(t *testing.T) {
	out, err := Serialize(userModel())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "schema = {\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `    "name": "user",`)
	assert.Contains(t, out, "    \"fields\": [\n        {\n            \"name\": \"email\",\n")
	assert.Contains(t, out, `        "column_list": ['email'],`)
	assert.Contains(t, out, `    "action": [{"name": "list", "template": "tablebase"}],`)
}

func TestSerializeIsDeterministic(t *testing.T) {
	first, err := Serialize(fullModel())
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Serialize(fullModel())
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestSerializeTopLevelOrder(t *testing.T) {
	out, err := Serialize(fullModel())
	require.NoError(t, err)

	last := -1
	for _, key := range TopLevelOrder {
		idx := strings.Index(out, "\n    \""+key+"\": ")
		require.GreaterOrEqual(t, idx, 0, key)
		assert.Greater(t, idx, last, key)
		last = idx
	}
	assert.NotContains(t, out, `"status": "active"`)
	assert.NotContains(t, out, "createdAt")
}

func TestSerializeSkipsAbsentKeys(t *testing.T) {
	out, err := Serialize(obj("label", "Only", "name", "only"))
	require.NoError(t, err)
	assert.Equal(t, "schema = {\n    \"name\": \"only\",\n    \"label\": \"Only\",\n}\n", out)
}

func TestSerializeActionAlignment(t *testing.T) {
	out, err := Serialize(obj("action", []any{
		obj("name", "list", "template", "tablebase"),
		obj("name", "delete"),
	}))
	require.NoError(t, err)
	want := "    \"action\": [{\"name\": \"list\", \"template\": \"tablebase\"},\n" +
		"               {\"name\": \"delete\", \"template\": \"\"}],\n"
	assert.Contains(t, out, want)
}

func TestSerializeEmptyCollections(t *testing.T) {
	out, err := Serialize(obj("action", []any{}, "fields", []any{}, "base_props", obj(), "custom_actions", []any{}))
	require.NoError(t, err)
	want := "schema = {\n" +
		"    \"action\": [],\n" +
		"    \"fields\": [\n    ],\n" +
		"    \"base_props\": {\n\n    },\n" +
		"    # 自定义action\n    \"custom_actions\": [\n    ]\n" +
		"}\n"
	assert.Equal(t, want, out)
}

func TestSerializeFieldRestAttributesKeepDocumentOrder(t *testing.T) {
	out, err := Serialize(obj("fields", []any{
		obj("width", 120, "name", "a", "source", "x", "label", "A"),
	}))
	require.NoError(t, err)
	want := "        {\n" +
		"            \"name\": \"a\",\n" +
		"            \"label\": \"A\",\n" +
		"            \"width\": 120,\n" +
		"            \"source\": \"x\",\n" +
		"        },\n"
	assert.Contains(t, out, want)
}

func TestSerializeSubmitStyleWithoutType(t *testing.T) {
	out, err := Serialize(obj("base_props", obj("submit_style", obj("alert_content", "hi"))))
	require.NoError(t, err)
	assert.Contains(t, out, `        "submit_style": {"alert_content": "hi"},`)

	out, err = Serialize(obj("base_props", obj("submit_style", obj("type", "alert"))))
	require.NoError(t, err)
	assert.Contains(t, out, "            'type': 'alert',  # 提交类型. alert(弹出)\n        },\n")
	assert.NotContains(t, out, "alert_content")
}

func TestSerializeUnsupportedValue(t *testing.T) {
	_, err := Serialize(obj("name", struct{}{}))
	var uerr *UnsupportedValueError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "name", uerr.Path)

	_, err = Serialize(obj("fields", "not a list"))
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "fields", uerr.Path)

	_, err = Serialize(nil)
	assert.Error(t, err)
}

func TestFormatValueScalars(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "None"},
		{true, "True"},
		{false, "False"},
		{"active", `"active"`},
		{"关闭", `"关闭"`},
		{float64(3), "3"},
		{2.5, "2.5"},
		{[]any{}, "[]"},
		{value.NewObject(), "{}"},
		{obj("status", "开启"), `{"开启"}`},
		{obj("status", "关闭"), `{"status": "关闭"}`},
		{[]string{"a", "b"}, "['a', 'b']"},
		{[]any{"a", float64(1)}, "['a', 1]"},
	}
	for _, tc := range cases {
		got, err := FormatValue(tc.in, 1)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%#v", tc.in)
	}
}

func TestFormatValueInlineThreshold(t *testing.T) {
	// ["aaaaaaaaaaaaaaaaaaaaaaaaa","bbbbbbbbbbbbbbbbbbbbbbbbbbb"] encodes to 59 characters
	short := []any{strings.Repeat("a", 25), strings.Repeat("b", 27)}
	got, err := FormatValue(short, 2)
	require.NoError(t, err)
	assert.Equal(t, "['"+strings.Repeat("a", 25)+"', '"+strings.Repeat("b", 27)+"']", got)

	long := []any{strings.Repeat("a", 25), strings.Repeat("b", 28)}
	got, err = FormatValue(long, 2)
	require.NoError(t, err)
	want := "[\n            '" + strings.Repeat("a", 25) + "',\n            '" + strings.Repeat("b", 28) + "'\n        ]"
	assert.Equal(t, want, got)
}

func TestFormatValueThresholdCountsUTF16Units(t *testing.T) {
	// 26 CJK runes are 26 UTF-16 units but 78 UTF-8 bytes
	s := strings.Repeat("中", 26)
	got, err := FormatValue([]any{s, s}, 1)
	require.NoError(t, err)
	assert.Equal(t, "['"+s+"', '"+s+"']", got)
}

func TestFormatValueTuples(t *testing.T) {
	got, err := FormatValue([]any{[]any{"a", "A"}, []any{float64(2), nil}}, 3)
	require.NoError(t, err)
	assert.Equal(t, "[('a', 'A'), (2, )]", got)

	_, err = FormatValue([]any{[]any{"a"}, "b"}, 3)
	var uerr *UnsupportedValueError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "$[1]", uerr.Path)
}

func TestFormatValueObjects(t *testing.T) {
	compact, err := FormatValue(obj("width", "200px", "length", float64(20), "row", []any{"a", "b"}), 3)
	require.NoError(t, err)
	assert.Equal(t, `{"width": "200px", "length": 20, "row": ['a', 'b']}`, compact)

	// four keys break the compact form
	multi, err := FormatValue(obj("a", "1", "b", "2", "c", "3", "d", "4"), 1)
	require.NoError(t, err)
	assert.Equal(t, "{\n        \"a\": \"1\",\n        \"b\": \"2\",\n        \"c\": \"3\",\n        \"d\": \"4\"\n    }", multi)

	// a null member breaks the compact form
	withNull, err := FormatValue(obj("a", nil), 2)
	require.NoError(t, err)
	assert.Equal(t, "{\n                \"a\": None\n        }", withNull)

	nested, err := FormatValue(obj("method", obj("formula", "a+b")), 1)
	require.NoError(t, err)
	assert.Equal(t, "{\n        \"method\": {\"formula\": \"a+b\"}\n    }", nested)
}

func TestFormatValueComplexArray(t *testing.T) {
	got, err := FormatValue([]any{obj("name", "Length", "kws", obj("max", float64(10))), true}, 3)
	require.NoError(t, err)
	want := "[\n" +
		"                {\n" +
		"                                \"name\": \"Length\",\n" +
		"                                \"kws\": {\"max\": 10}\n" +
		"                },\n" +
		"                True\n" +
		"            ]"
	assert.Equal(t, want, got)
}

func TestSerializeTimeoutAsArray(t *testing.T) {
	out, err := Serialize(obj("base_props", obj("timeout", []any{float64(5), float64(6)})))
	require.NoError(t, err)
	assert.Contains(t, out, "        \"timeout\": {\n            \"0\": 5,\n            \"1\": 6\n        },\n")
}

func TestJSONLen(t *testing.T) {
	assert.Equal(t, len(`["a","b"]`), jsonLen([]any{"a", "b"}))
	assert.Equal(t, len(`[1,2.5]`), jsonLen([]any{float64(1), 2.5}))
	assert.Equal(t, len(`["a\"b"]`), jsonLen([]any{`a"b`}))
	assert.Equal(t, len(`["\u0001"]`), jsonLen([]any{"\x01"}))
	assert.Equal(t, 6, jsonLen([]any{"😀"}))
}
