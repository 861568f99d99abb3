package join

import (
	"testing"

	"coltab/config"
	"coltab/internal/column"
	"coltab/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLeft(t *testing.T) *table.Table {
	t.Helper()
	id := column.NewInt32ColumnFromSlice("id", []int32{1, 2, 3}, nil)
	name := column.NewVarcharColumn("name", 3, false)
	name.Append("a")
	name.Append("b")
	name.Append("c")
	tbl, err := table.New([]column.Column{id, name})
	require.NoError(t, err)
	return tbl
}

func buildRight(t *testing.T) *table.Table {
	t.Helper()
	id := column.NewInt32ColumnFromSlice("id", []int32{2, 3, 3}, nil)
	tag := column.NewVarcharColumn("tag", 3, false)
	tag.Append("x")
	tag.Append("y")
	tag.Append("z")
	tbl, err := table.New([]column.Column{id, tag})
	require.NoError(t, err)
	return tbl
}

func TestInnerJoinFansOutOneToMany(t *testing.T) {
	left, right := buildLeft(t), buildRight(t)
	out, err := Join(left, right, "id", Inner, config.Default().Grouping)
	require.NoError(t, err)
	assert.Equal(t, 3, out.RowCount())
}

func TestLeftJoinKeepsUnmatchedRowsWithNullRight(t *testing.T) {
	left, right := buildLeft(t), buildRight(t)
	out, err := Join(left, right, "id", Left, config.Default().Grouping)
	require.NoError(t, err)
	assert.Equal(t, 4, out.RowCount())

	tagCol, err := out.Column("tag")
	require.NoError(t, err)
	assert.True(t, tagCol.Nullable())

	var sawNull bool
	for i := 0; i < tagCol.Len(); i++ {
		if tagCol.IsNull(i) {
			sawNull = true
		}
	}
	assert.True(t, sawNull)
}

func TestJoinRejectsNameCollision(t *testing.T) {
	left := buildLeft(t)
	id := column.NewInt32ColumnFromSlice("id", []int32{1}, nil)
	nameRight := column.NewVarcharColumn("name", 1, false)
	nameRight.Append("dup")
	right, err := table.New([]column.Column{id, nameRight})
	require.NoError(t, err)

	_, err = Join(left, right, "id", Inner, config.Default().Grouping)
	assert.Error(t, err)
}

func TestJoinCollapsesNullKeysToOneBucket(t *testing.T) {
	leftID := column.NewInt32Column("id", 2, true)
	leftID.Append(1)
	leftID.Append(0)
	require.NoError(t, leftID.SetNull(1))
	leftName := column.NewVarcharColumn("name", 2, false)
	leftName.Append("a")
	leftName.Append("b")
	left, err := table.New([]column.Column{leftID, leftName})
	require.NoError(t, err)

	rightID := column.NewInt32Column("id", 1, true)
	rightID.Append(0)
	require.NoError(t, rightID.SetNull(0))
	rightTag := column.NewVarcharColumn("tag", 1, false)
	rightTag.Append("z")
	right, err := table.New([]column.Column{rightID, rightTag})
	require.NoError(t, err)

	// Left row with a null "id" matches the right row with a null "id",
	// since null keys collapse into one sentinel bucket (§4.K).
	out, err := Join(left, right, "id", Inner, config.Default().Grouping)
	require.NoError(t, err)
	assert.Equal(t, 1, out.RowCount())
}
