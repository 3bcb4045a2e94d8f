package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"minibooks/internal/core/entity"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
)

type mockCatalogRow struct {
	entity.BaseCatalog
	Code  string      `db:"code" json:"code"`
	Name  string      `db:"name" json:"name"`
	Price types.Money `db:"price" json:"price"`
	Skip  string      `db:"-" json:"skip"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalogRow]()

	for _, expected := range []string{"id", "deletion_mark", "version", "code", "name", "price"} {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "skip")
}

func TestStructToMap(t *testing.T) {
	row := mockCatalogRow{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
		},
		Code:  "ACC-1000",
		Name:  "Cash",
		Price: types.MustMoney("12.34"),
		Skip:  "not persisted",
	}

	m := StructToMap(row)

	assert.Equal(t, row.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "ACC-1000", m["code"])
	assert.Equal(t, "Cash", m["name"])
	assert.NotContains(t, m, "-")
}

func TestStructToMap_Pointer(t *testing.T) {
	row := &mockCatalogRow{Code: "X"}
	m := StructToMap(row)
	assert.Equal(t, "X", m["code"])
}
