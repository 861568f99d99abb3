package schema

import (
	"testing"

	"coltab/internal/column"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOfAndNameOfRoundTrip(t *testing.T) {
	for _, tn := range []TypeName{TypeI32, TypeF64, TypeBool, TypeString, TypeTimestamp, TypeCategorical} {
		k, err := KindOf(tn)
		require.NoError(t, err)
		assert.Equal(t, tn, NameOf(k))
	}
}

func TestKindOfRejectsUnknownToken(t *testing.T) {
	_, err := KindOf("not_a_type")
	assert.Error(t, err)
}

func TestNewRejectsDuplicateName(t *testing.T) {
	_, err := New([]Field{
		{Name: "a", Type: TypeI32},
		{Name: "a", Type: TypeF64},
	})
	assert.Error(t, err)
}

func TestByNameAndIndexOf(t *testing.T) {
	s, err := New([]Field{{Name: "a", Type: TypeI32}, {Name: "b", Type: TypeString}})
	require.NoError(t, err)

	idx, ok := s.IndexOf("b")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	f, err := s.ByName("a")
	require.NoError(t, err)
	assert.Equal(t, TypeI32, f.Type)

	_, err = s.ByName("missing")
	assert.Error(t, err)
}

func TestNameOfUnknownKindReturnsEmpty(t *testing.T) {
	assert.Equal(t, TypeName(""), NameOf(column.Kind(99)))
}
