package selection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"andon-console/internal/record"
	"andon-console/internal/store"
)

type memKV struct {
	values map[string]string
	getErr error
	setErr error
	sets   int
}

func newMemKV() *memKV {
	return &memKV{values: map[string]string{}}
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.values[key] = value
	return nil
}

func (m *memKV) SeedIfMissing(_ context.Context, key, value string) error {
	if _, ok := m.values[key]; !ok {
		m.values[key] = value
	}
	return nil
}

func TestPersister_Seed(t *testing.T) {
	kv := newMemKV()
	kv.values[DepartmentKey] = "Assembly,7"
	p := NewPersister(kv)

	require.NoError(t, p.Seed(context.Background()))
	assert.Equal(t, " , , , , , , , , ", kv.values[CallsKey])
	assert.Equal(t, "Assembly,7", kv.values[DepartmentKey], "existing value must survive seeding")
}

func TestPersister_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	p := NewPersister(kv)

	var calls [SlotCount]ActiveCall
	calls[1] = CallFrom(record.CallRecord{Status: "Red", Description: "Jam", Recipient: "Alice"})
	require.NoError(t, p.SaveCalls(ctx, calls))
	assert.Equal(t, calls, p.LoadCalls(ctx))

	dept := ActiveDepartment{Name: Some("Assembly"), ID: Some("7")}
	require.NoError(t, p.SaveDepartment(ctx, dept))
	assert.Equal(t, dept, p.LoadDepartment(ctx))
}

func TestPersister_LoadFailuresYieldAbsent(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name string
		kv   *memKV
	}{
		{name: "missing keys", kv: newMemKV()},
		{name: "read error", kv: &memKV{values: map[string]string{}, getErr: errors.New("disk gone")}},
		{
			name: "corrupt values",
			kv: &memKV{values: map[string]string{
				CallsKey:      "Red,Jam",
				DepartmentKey: "x",
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPersister(tc.kv)
			before := len(tc.kv.values)

			assert.Equal(t, [SlotCount]ActiveCall{}, p.LoadCalls(ctx))
			assert.Equal(t, ActiveDepartment{}, p.LoadDepartment(ctx))
			assert.Len(t, tc.kv.values, before, "load must not write")
		})
	}
}

func TestPersister_SaveErrors(t *testing.T) {
	ctx := context.Background()
	kv := &memKV{values: map[string]string{}, setErr: errors.New("flash full")}
	p := NewPersister(kv)

	err := p.SaveCalls(ctx, [SlotCount]ActiveCall{})
	assert.ErrorContains(t, err, "flash full")

	err = p.SaveDepartment(ctx, ActiveDepartment{Name: Some("a,b")})
	assert.ErrorIs(t, err, ErrSeparatorInValue)
	assert.Zero(t, kv.sets)
}

func TestPersister_ResetAllPersistsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	p := NewPersister(kv)

	calls := [SlotCount]ActiveCall{
		CallFrom(record.CallRecord{Status: "Red", Description: "Jam", Recipient: "A"}),
		CallFrom(record.CallRecord{Status: "Yellow", Description: "Low", Recipient: "B"}),
		CallFrom(record.CallRecord{Status: "Blue", Description: "QA", Recipient: "C"}),
	}
	require.NoError(t, p.SaveCalls(ctx, calls))
	require.NoError(t, p.SaveCalls(ctx, [SlotCount]ActiveCall{}))
	require.NoError(t, p.SaveDepartment(ctx, ActiveDepartment{}))

	assert.Equal(t, [SlotCount]ActiveCall{}, p.LoadCalls(ctx))
	assert.Equal(t, ActiveDepartment{}, p.LoadDepartment(ctx))
	assert.Equal(t, " , , , , , , , , ", kv.values[CallsKey])
}
