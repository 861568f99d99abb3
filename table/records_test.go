package table

import (
	"testing"

	"coltab/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	name string
	age  int32
	hasAge bool
}

func personAdapter() RecordAdapter {
	return RecordAdapter{
		{Name: "name", Type: schema.TypeString, Nullable: false, Extract: func(rec any) (any, bool) {
			return rec.(person).name, true
		}},
		{Name: "age", Type: schema.TypeI32, Nullable: true, Extract: func(rec any) (any, bool) {
			p := rec.(person)
			return p.age, p.hasAge
		}},
	}
}

func TestFromRecordsMaterializesTypedColumns(t *testing.T) {
	records := []any{
		person{name: "alice", age: 30, hasAge: true},
		person{name: "bob", age: 0, hasAge: false},
	}
	tbl, err := FromRecords(records, personAdapter())
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.RowCount())

	ageCol, err := tbl.Column("age")
	require.NoError(t, err)
	assert.True(t, ageCol.IsNull(1))

	nameCol, err := tbl.Column("name")
	require.NoError(t, err)
	v, _ := nameCol.GetBoxed(0)
	assert.Equal(t, "alice", v)
}

func TestFromRecordsRejectsEmptyAdapter(t *testing.T) {
	_, err := FromRecords([]any{person{name: "alice"}}, RecordAdapter{})
	assert.Error(t, err)
}

func TestFromRecordsHandlesEmptyRecordSet(t *testing.T) {
	tbl, err := FromRecords(nil, personAdapter())
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.RowCount())
}
