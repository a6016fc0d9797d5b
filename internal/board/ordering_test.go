package board

import (
	"testing"

	"github.com/staffing-office/shift-board/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorder_MoveBackwards(t *testing.T) {
	o := NewOrdering([]string{"A", "B", "C", "D"}, domain.DefaultColumnOrder())

	require.NoError(t, o.Reorder(domain.OrderKindStaff, "D", "B"))
	assert.Equal(t, []string{"A", "D", "B", "C"}, o.Order(domain.OrderKindStaff))
}

func TestReorder_MoveForwards(t *testing.T) {
	o := NewOrdering([]string{"A", "B", "C", "D"}, nil)

	require.NoError(t, o.Reorder(domain.OrderKindStaff, "A", "C"))
	assert.Equal(t, []string{"B", "C", "A", "D"}, o.Order(domain.OrderKindStaff))
}

func TestReorder_SameIDIsNoop(t *testing.T) {
	o := NewOrdering([]string{"A", "B", "C"}, nil)

	require.NoError(t, o.Reorder(domain.OrderKindStaff, "B", "B"))
	assert.Equal(t, []string{"A", "B", "C"}, o.Order(domain.OrderKindStaff))
}

func TestReorder_UnknownIDRejected(t *testing.T) {
	o := NewOrdering([]string{"A", "B", "C"}, nil)

	assert.ErrorIs(t, o.Reorder(domain.OrderKindStaff, "X", "B"), domain.ErrInvalidArgument)
	assert.ErrorIs(t, o.Reorder(domain.OrderKindStaff, "A", "X"), domain.ErrInvalidArgument)
	assert.ErrorIs(t, o.Reorder("rows", "A", "B"), domain.ErrInvalidArgument)
	assert.Equal(t, []string{"A", "B", "C"}, o.Order(domain.OrderKindStaff))
}

func TestReorder_PreservesMembershipForAllPairs(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "E"}
	for _, moved := range ids {
		for _, target := range ids {
			o := NewOrdering(ids, nil)
			require.NoError(t, o.Reorder(domain.OrderKindStaff, moved, target))

			got := o.Order(domain.OrderKindStaff)
			assert.Len(t, got, len(ids))
			assert.ElementsMatch(t, ids, got)
			// 被移动的元素落在目标原来的位置上
			assert.Equal(t, moved, got[indexOf(ids, target)])
		}
	}
}

func TestReorder_KindsAreIndependent(t *testing.T) {
	columns := domain.DefaultColumnOrder()
	o := NewOrdering([]string{"A", "B", "C"}, columns)

	require.NoError(t, o.Reorder(domain.OrderKindStaff, "C", "A"))
	assert.Equal(t, columns, o.Order(domain.OrderKindColumn))

	require.NoError(t, o.Reorder(domain.OrderKindColumn, string(domain.ColumnTotalAmount), string(domain.ColumnPhoneticName)))
	assert.Equal(t, []string{"C", "A", "B"}, o.Order(domain.OrderKindStaff))
	assert.Equal(t, string(domain.ColumnTotalAmount), o.Order(domain.OrderKindColumn)[0])
	assert.ElementsMatch(t, columns, o.Order(domain.OrderKindColumn))
}

func TestRestore_ReconcilesWithCurrentMembers(t *testing.T) {
	o := NewOrdering([]string{"A", "B", "C", "D"}, nil)

	restored, err := o.Restore(domain.OrderKindStaff, []string{"C", "X", "A", "C"})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B", "D"}, restored)
	assert.Equal(t, restored, o.Order(domain.OrderKindStaff))
}

func TestOrder_ReturnsCopy(t *testing.T) {
	o := NewOrdering([]string{"A", "B"}, nil)
	got := o.Order(domain.OrderKindStaff)
	got[0] = "Z"
	assert.Equal(t, []string{"A", "B"}, o.Order(domain.OrderKindStaff))
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}
