package catalog_repo

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ironstock/internal/core/id"
)

func TestExistsQuery_ExcludesDeletionMarked(t *testing.T) {
	repo := NewBaseCatalogRepo(nil, "cat_suppliers", supplierColumns, func() *struct{} { return nil })

	entityID := id.New()
	sql, args, err := repo.existsQuery(squirrel.Eq{"id": entityID}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "deletion_mark")
	assert.Contains(t, args, false)
	assert.Contains(t, args, entityID)
}
