package board

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsInvalidInput(t *testing.T) {
	cases := map[string]Options{
		"bad month":       {Year: 2025, Month: 13, Roster: testRoster()},
		"duplicate staff": {Year: 2025, Month: time.January, Roster: append(testRoster(), staff("A", "", 1, 1))},
		"missing id":      {Year: 2025, Month: time.January, Roster: []domain.StaffMember{staff("", "", 1, 1)}},
		"negative rate":   {Year: 2025, Month: time.January, Roster: []domain.StaffMember{staff("A", "", -1, 1)}},
		"unknown staff in shifts": {Year: 2025, Month: time.January, Roster: testRoster(),
			Shifts: []domain.Shift{{StaffID: "X", Date: jan(1), Status: domain.StatusAvailable}}},
		"shift outside month": {Year: 2025, Month: time.January, Roster: testRoster(),
			Shifts: []domain.Shift{{StaffID: "A", Date: civil.Date{Year: 2025, Month: time.February, Day: 1}, Status: domain.StatusAvailable}}},
		"comment outside month": {Year: 2025, Month: time.January, Roster: testRoster(),
			Comments: []domain.Comment{{StaffID: "A", Date: civil.Date{Year: 2024, Month: time.December, Day: 31}, Text: "x"}}},
	}

	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(opts)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestBoard_EffectiveRateOnTuesday(t *testing.T) {
	b := newTestBoard(t, Options{})

	// 2025-01-07 是周二
	got, err := b.EffectiveRate("A", jan(7))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(18000)), got.String())

	got, err = b.EffectiveRate("A", jan(11))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(25000)), got.String())

	_, err = b.EffectiveRate("X", jan(7))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestBoard_UpdateStatusOnUnsetCell(t *testing.T) {
	var calls []domain.Status
	b := newTestBoard(t, Options{Hooks: Hooks{
		OnStatusChange: func(staffID string, date civil.Date, newStatus domain.Status) {
			assert.Equal(t, "A", staffID)
			assert.Equal(t, jan(10), date)
			calls = append(calls, newStatus)
		},
	}})

	require.NoError(t, b.UpdateStatus("A", jan(10), domain.StatusAvailable, "u1"))

	assert.Equal(t, domain.StatusAvailable, b.Status("A", jan(10)))
	history := b.StatusHistory("A", jan(10))
	require.Len(t, history, 1)
	assert.Equal(t, domain.StatusUndecided, history[0].PreviousStatus)
	assert.Equal(t, "u1", history[0].Actor)
	assert.True(t, b.IsDirtySinceLoad("A", jan(10)))
	assert.False(t, b.IsDirtySinceLoad("A", jan(11)))

	// 相同状态不触发回调
	require.NoError(t, b.UpdateStatus("A", jan(10), domain.StatusAvailable, "u1"))
	assert.Equal(t, []domain.Status{domain.StatusAvailable}, calls)
}

func TestBoard_UnavailableClearsLocation(t *testing.T) {
	var locations []string
	b := newTestBoard(t, Options{
		Shifts: []domain.Shift{{StaffID: "A", Date: jan(10), Status: domain.StatusAvailable, Location: "Venue X"}},
		Hooks: Hooks{OnLocationChange: func(_ string, _ civil.Date, location string) {
			locations = append(locations, location)
		}},
	})

	require.NoError(t, b.UpdateStatus("A", jan(10), domain.StatusUnavailable, "u1"))
	assert.Empty(t, b.Shift("A", jan(10)).Location)
	assert.Equal(t, []string{""}, locations)
}

func TestBoard_RejectionsDoNotMutateOrNotify(t *testing.T) {
	notified := 0
	hooks := Hooks{
		OnStatusChange:   func(string, civil.Date, domain.Status) { notified++ },
		OnRateChange:     func(string, civil.Date, *decimal.Decimal) { notified++ },
		OnLocationChange: func(string, civil.Date, string) { notified++ },
		OnCommentChange:  func(string, civil.Date, string) { notified++ },
		OnReorder:        func(domain.OrderKind, []string) { notified++ },
	}
	b := newTestBoard(t, Options{Hooks: hooks})
	feb := civil.Date{Year: 2025, Month: time.February, Day: 1}

	assert.ErrorIs(t, b.UpdateStatus("X", jan(10), domain.StatusAvailable, "u1"), domain.ErrInvalidArgument)
	assert.ErrorIs(t, b.UpdateStatus("A", feb, domain.StatusAvailable, "u1"), domain.ErrInvalidArgument)
	assert.ErrorIs(t, b.UpdateStatus("A", jan(10), "maybe", "u1"), domain.ErrInvalidArgument)
	assert.ErrorIs(t, b.UpdateLocation("A", jan(10), "Venue X"), domain.ErrInvalidTransition)
	assert.ErrorIs(t, b.UpdateLocation("A", feb, "Venue X"), domain.ErrInvalidArgument)
	assert.ErrorIs(t, b.UpdateRateOverride("A", jan(10), dec(-100)), domain.ErrInvalidArgument)
	assert.ErrorIs(t, b.UpdateRateOverride("X", jan(10), dec(100)), domain.ErrInvalidArgument)
	assert.ErrorIs(t, b.UpdateComment("A", feb, "x"), domain.ErrInvalidArgument)
	assert.ErrorIs(t, b.Reorder(domain.OrderKindStaff, "A", "X"), domain.ErrInvalidArgument)

	assert.Zero(t, notified)
	assert.Equal(t, domain.StatusUndecided, b.Status("A", jan(10)))
	assert.Empty(t, b.StatusHistory("A", jan(10)))
	assert.Nil(t, b.Shift("A", jan(10)).RateOverride)
	assert.Empty(t, b.Snapshot().Cells)
}

func TestBoard_RateOverrideHook(t *testing.T) {
	var rates []*decimal.Decimal
	b := newTestBoard(t, Options{Hooks: Hooks{
		OnRateChange: func(_ string, _ civil.Date, newRate *decimal.Decimal) { rates = append(rates, newRate) },
	}})

	require.NoError(t, b.UpdateRateOverride("A", jan(7), dec(30000)))
	require.NoError(t, b.UpdateRateOverride("A", jan(7), dec(30000)))
	require.NoError(t, b.UpdateRateOverride("A", jan(7), nil))

	require.Len(t, rates, 2)
	assert.Equal(t, "30000", rates[0].String())
	assert.Nil(t, rates[1])

	got, err := b.EffectiveRate("A", jan(7))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(18000)))
}

func TestBoard_Comments(t *testing.T) {
	var texts []string
	b := newTestBoard(t, Options{
		Comments: []domain.Comment{{StaffID: "B", Date: jan(2), Text: "遅刻"}},
		Hooks:    Hooks{OnCommentChange: func(_ string, _ civil.Date, text string) { texts = append(texts, text) }},
	})

	assert.Equal(t, "遅刻", b.Comment("B", jan(2)))

	require.NoError(t, b.UpdateComment("A", jan(3), "first"))
	require.NoError(t, b.UpdateComment("A", jan(3), "second"))
	require.NoError(t, b.UpdateComment("A", jan(3), "second"))
	assert.Equal(t, "second", b.Comment("A", jan(3)))

	require.NoError(t, b.UpdateComment("A", jan(3), ""))
	assert.Empty(t, b.Comment("A", jan(3)))
	assert.Equal(t, []string{"first", "second", ""}, texts)
}

func TestBoard_ReorderHookAndRoster(t *testing.T) {
	var got []string
	b := newTestBoard(t, Options{Hooks: Hooks{
		OnReorder: func(kind domain.OrderKind, order []string) {
			assert.Equal(t, domain.OrderKindStaff, kind)
			got = order
		},
	}})

	require.NoError(t, b.Reorder(domain.OrderKindStaff, "D", "B"))
	assert.Equal(t, []string{"A", "D", "B", "C", "G"}, got)

	got = nil
	require.NoError(t, b.Reorder(domain.OrderKindStaff, "B", "B"))
	assert.Nil(t, got)

	roster := b.Roster()
	require.Len(t, roster, 5)
	assert.Equal(t, "D", roster[1].ID)
	assert.Equal(t, domain.DefaultColumnOrder(), b.Order(domain.OrderKindColumn))
}

func TestBoard_RestoreOrderDoesNotNotify(t *testing.T) {
	called := false
	b := newTestBoard(t, Options{Hooks: Hooks{OnReorder: func(domain.OrderKind, []string) { called = true }}})

	restored, err := b.RestoreOrder(domain.OrderKindStaff, []string{"G", "C"})
	require.NoError(t, err)
	assert.Equal(t, []string{"G", "C", "A", "B", "D"}, restored)
	assert.False(t, called)
}

func TestBoard_CheckDateAndCell(t *testing.T) {
	b := newTestBoard(t, Options{})

	assert.NoError(t, b.CheckDate(jan(1)))
	assert.NoError(t, b.CheckDate(jan(31)))
	assert.ErrorIs(t, b.CheckDate(civil.Date{Year: 2025, Month: time.February, Day: 1}), domain.ErrInvalidArgument)
	assert.ErrorIs(t, b.CheckDate(civil.Date{Year: 2024, Month: time.January, Day: 10}), domain.ErrInvalidArgument)
	assert.ErrorIs(t, b.CheckDate(civil.Date{Year: 2025, Month: time.January, Day: 32}), domain.ErrInvalidArgument)

	assert.NoError(t, b.CheckCell("A", jan(10)))
	assert.ErrorIs(t, b.CheckCell("X", jan(10)), domain.ErrInvalidArgument)
	assert.ErrorIs(t, b.CheckCell("A", civil.Date{Year: 2025, Month: time.February, Day: 1}), domain.ErrInvalidArgument)
}
