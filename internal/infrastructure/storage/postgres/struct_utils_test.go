package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ironstock/internal/core/entity"
	"ironstock/internal/core/id"
)

type mockCatalog struct {
	entity.BaseCatalog
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expected := []string{"id", "deletion_mark", "version", "code", "name"}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}
	assert.Len(t, cols, len(expected))
}

func TestExtractDBColumns_Pointer(t *testing.T) {
	assert.ElementsMatch(t, ExtractDBColumns[mockCatalog](), ExtractDBColumns[*mockCatalog]())
}

func TestStructToMap(t *testing.T) {
	cat := mockCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
		},
		Code: "HMR-016",
		Name: "Claw Hammer 16oz",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "HMR-016", m["code"])
	assert.Equal(t, "Claw Hammer 16oz", m["name"])
}

func TestStructToMap_SkipsUntaggedFields(t *testing.T) {
	type withUntagged struct {
		Code     string `db:"code"`
		Skipped  string `db:"-"`
		Untagged string
	}

	m := StructToMap(withUntagged{Code: "X", Skipped: "s", Untagged: "u"})

	assert.Equal(t, map[string]any{"code": "X"}, m)
}
