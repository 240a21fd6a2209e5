package attribute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFields() []Field {
	return []Field{
		{Name: "P", Type: TypeFloat32, Width: 3},
		{Name: "id", Type: TypeInt64, Width: 1},
	}
}

func TestNewDescriptor(t *testing.T) {
	t.Run("appends group fields", func(t *testing.T) {
		desc, err := NewDescriptor(testFields(), "a", "b", "c")
		require.NoError(t, err)

		fields := desc.Fields()
		require.Len(t, fields, 3) // P, id, __group0
		assert.Equal(t, TypeGroup, fields[2].Type)

		assert.True(t, desc.HasGroup("a"))
		assert.True(t, desc.HasGroup("c"))
		assert.False(t, desc.HasGroup("d"))
	})

	t.Run("one group field per eight groups", func(t *testing.T) {
		groups := []string{"g0", "g1", "g2", "g3", "g4", "g5", "g6", "g7", "g8"}
		desc, err := NewDescriptor(testFields(), groups...)
		require.NoError(t, err)
		assert.Equal(t, 4, desc.FieldCount()) // P, id, __group0, __group1

		offset, ok := desc.GroupOffset("g8")
		require.True(t, ok)
		assert.Equal(t, uint16(8), offset)
	})

	t.Run("rejects reserved field prefix", func(t *testing.T) {
		_, err := NewDescriptor([]Field{{Name: "__group9", Type: TypeGroup, Width: 1}})
		assert.ErrorIs(t, err, ErrReservedName)
	})

	t.Run("rejects duplicate group", func(t *testing.T) {
		_, err := NewDescriptor(testFields(), "a", "a")
		assert.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("rejects duplicate field", func(t *testing.T) {
		_, err := NewDescriptor([]Field{
			{Name: "P", Type: TypeFloat32, Width: 3},
			{Name: "P", Type: TypeFloat32, Width: 3},
		})
		assert.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("rejects wide non-float field", func(t *testing.T) {
		_, err := NewDescriptor([]Field{{Name: "n", Type: TypeInt64, Width: 2}})
		assert.Error(t, err)
	})
}

func TestDescriptorGroups(t *testing.T) {
	desc, err := NewDescriptor(testFields(), "a", "b", "c")
	require.NoError(t, err)

	t.Run("group names sorted", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, desc.GroupNames())
	})

	t.Run("intersect preserves request order and dedupes", func(t *testing.T) {
		got := desc.Intersect([]string{"c", "missing", "a", "c"})
		assert.Equal(t, []string{"c", "a"}, got)
	})

	t.Run("intersect with no matches", func(t *testing.T) {
		assert.Empty(t, desc.Intersect([]string{"x", "y"}))
	})

	t.Run("group location", func(t *testing.T) {
		fieldIndex, mask, err := desc.GroupLocation("b")
		require.NoError(t, err)
		assert.Equal(t, 2, fieldIndex) // __group0
		assert.Equal(t, uint8(0x02), mask)

		_, _, err = desc.GroupLocation("missing")
		assert.ErrorIs(t, err, ErrUnknownGroup)
	})

	t.Run("drop groups", func(t *testing.T) {
		desc, err := NewDescriptor(testFields(), "a", "b")
		require.NoError(t, err)

		desc.DropGroups("a", "missing")
		assert.False(t, desc.HasGroup("a"))
		assert.True(t, desc.HasGroup("b"))
		// Backing group field is retained.
		assert.Equal(t, 3, desc.FieldCount())
	})
}

func TestRestoreDescriptor(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		orig, err := NewDescriptor(testFields(), "a", "b", "c")
		require.NoError(t, err)
		orig.DropGroups("b") // sparse offsets survive restore

		restored, err := RestoreDescriptor(orig.Fields(), orig.GroupOffsets())
		require.NoError(t, err)

		assert.Equal(t, orig.Fields(), restored.Fields())
		assert.Equal(t, orig.GroupOffsets(), restored.GroupOffsets())
	})

	t.Run("rejects offset without backing field", func(t *testing.T) {
		_, err := RestoreDescriptor(testFields(), map[string]uint16{"a": 0})
		assert.Error(t, err)
	})
}
