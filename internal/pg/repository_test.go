package pg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"adminschema/internal/schema"
	"adminschema/internal/store"
	"adminschema/internal/value"
)

func TestModelRepositoryRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("adminschema"),
		postgres.WithUsername("admin"),
		postgres.WithPassword("admin"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := Open(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewModelRepository(db)
	require.NoError(t, err)
	// повторное применение DDL не ломается
	_, err = NewModelRepository(db)
	require.NoError(t, err)

	m := &schema.Model{
		Name: "user", Label: "User", Entry: schema.EntryList,
		Parent:    &schema.ParentMenu{Label: "Sys", Name: "system"},
		Actions:   []schema.Action{{Name: "list", Template: "tablebase"}},
		Fields:    []schema.Field{{ID: "f1", Name: "email", Label: "Email", Type: "String", CopyRule: schema.CopyDisabled}},
		BaseProps: value.ObjectOf("column_list", []any{"email"}),
	}
	id, err := repo.SaveModel(ctx, m)
	require.NoError(t, err)

	m.Label = "Users"
	again, err := repo.SaveModel(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	models, err := repo.FetchModels(ctx)
	require.NoError(t, err)
	require.Len(t, models, 1)
	got := models[0]
	assert.Equal(t, "Users", got.Label)
	assert.Equal(t, id, got.RemoteID)
	assert.Equal(t, "system", got.ParentName())
	require.Len(t, got.Fields, 1)
	assert.Equal(t, schema.CopyDisabled, got.Fields[0].CopyRule)
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, repo.DeleteModel(ctx, id))
	assert.Error(t, repo.DeleteModel(ctx, id))

	// порядок ключей во вложенных объектах переживает запись
	st := store.New(store.WithRepository(repo), store.WithLogger(zap.NewNop()))
	imported := st.ImportModels([]*schema.Model{orderedModel()}, nil, "")
	require.NoError(t, st.Save(ctx, imported[0].ID))
	before, err := st.Render(imported[0].ID)
	require.NoError(t, err)

	fresh := store.New(store.WithRepository(repo), store.WithLogger(zap.NewNop()))
	loaded, err := fresh.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	after, err := fresh.Render(loaded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// orderedModel — модель, ключи которой идут не по алфавиту и не по длине.
func orderedModel() *schema.Model {
	return &schema.Model{
		Name: "order", Label: "Order", Entry: schema.EntryList,
		Actions: []schema.Action{{Name: "list", Template: "tablebase"}},
		Fields: []schema.Field{{
			Name: "amount", Label: "Amount", Type: "Float",
			Attrs: value.ObjectOf(
				"render_kw", value.ObjectOf("placeholder", "0.00", "step", "0.01", "class", "num", "readonly", true),
				"validators", []any{value.ObjectOf("name", "DataRequired")},
				"width", 120,
			),
		}},
		BaseProps: value.ObjectOf(
			"column_list", []any{"amount"},
			"custom_style", value.ObjectOf("table_head", "bold", "row", "striped", "cell_padding", "4px", "a", 1),
		),
	}
}
