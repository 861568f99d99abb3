package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTableShapeAndDeterminism(t *testing.T) {
	a := generateTable(100, 10)
	b := generateTable(100, 10)
	assert.Equal(t, 100, a.RowCount())
	assert.Equal(t, 2, a.ColumnCount())

	keyA, _ := a.Column("key")
	keyB, _ := b.Column("key")
	for i := 0; i < 100; i++ {
		va, _ := keyA.GetBoxed(i)
		vb, _ := keyB.GetBoxed(i)
		assert.Equal(t, va, vb, "generateTable must be deterministic across calls (fixed rand seed)")
	}
}

func TestGenerateTableClampsGroupsBelowOne(t *testing.T) {
	tbl := generateTable(10, 0)
	assert.Equal(t, 10, tbl.RowCount())
}
