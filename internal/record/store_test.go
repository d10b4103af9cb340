package record

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls    []CallRecord
	callsErr error
	depts    []DeptRecord
	deptsErr error
}

func (f *fakeFetcher) FetchCalls(context.Context) ([]CallRecord, error) {
	return f.calls, f.callsErr
}

func (f *fakeFetcher) FetchDepartments(context.Context) ([]DeptRecord, error) {
	return f.depts, f.deptsErr
}

func makeCalls(n int) []CallRecord {
	out := make([]CallRecord, n)
	for i := range out {
		out[i] = CallRecord{
			Status:      "Red",
			Description: fmt.Sprintf("Problem %d", i),
			Recipient:   fmt.Sprintf("Person %d", i),
		}
	}
	return out
}

func TestStore_Refresh(t *testing.T) {
	testCases := []struct {
		name      string
		fetcher   *fakeFetcher
		kind      Kind
		wantCount int
	}{
		{
			name:      "calls within capacity",
			fetcher:   &fakeFetcher{calls: makeCalls(3)},
			kind:      KindCalls,
			wantCount: 3,
		},
		{
			name:      "calls truncated at capacity",
			fetcher:   &fakeFetcher{calls: makeCalls(MaxRecords + 7)},
			kind:      KindCalls,
			wantCount: MaxRecords,
		},
		{
			name:      "calls fetch error leaves list empty",
			fetcher:   &fakeFetcher{calls: makeCalls(3), callsErr: errors.New("unreachable")},
			kind:      KindCalls,
			wantCount: 0,
		},
		{
			name:      "departments",
			fetcher:   &fakeFetcher{depts: []DeptRecord{{Name: "Assembly", ID: 1}, {Name: "Paint", ID: 2}}},
			kind:      KindDepartments,
			wantCount: 2,
		},
		{
			name:      "departments fetch error",
			fetcher:   &fakeFetcher{deptsErr: errors.New("malformed")},
			kind:      KindDepartments,
			wantCount: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore(tc.fetcher)
			assert.Equal(t, tc.wantCount, s.Refresh(context.Background(), tc.kind))
			assert.Equal(t, tc.wantCount, s.Count(tc.kind))
		})
	}
}

func TestStore_FailedRefreshDiscardsPreviousList(t *testing.T) {
	f := &fakeFetcher{calls: makeCalls(5)}
	s := NewStore(f)
	require.Equal(t, 5, s.Refresh(context.Background(), KindCalls))

	f.callsErr = errors.New("backend down")
	assert.Equal(t, 0, s.Refresh(context.Background(), KindCalls))
	assert.Empty(t, s.Calls())
	assert.Panics(t, func() { s.Call(0) })
}

func TestStore_RefreshReplacesWholesale(t *testing.T) {
	f := &fakeFetcher{calls: makeCalls(6)}
	s := NewStore(f)
	s.Refresh(context.Background(), KindCalls)

	f.calls = []CallRecord{{Status: "Green", Description: "Only", Recipient: "Lead"}}
	require.Equal(t, 1, s.Refresh(context.Background(), KindCalls))
	assert.Equal(t, f.calls, s.Calls())
	assert.Equal(t, "Only", s.Label(KindCalls, 0))
}

func TestStore_AccessorsAreBoundsChecked(t *testing.T) {
	s := NewStore(&fakeFetcher{
		calls: makeCalls(2),
		depts: []DeptRecord{{Name: "Assembly", ID: 1}},
	})
	s.Refresh(context.Background(), KindCalls)
	s.Refresh(context.Background(), KindDepartments)

	assert.Equal(t, "Problem 1", s.Call(1).Description)
	assert.Equal(t, "Assembly", s.Label(KindDepartments, 0))
	assert.Panics(t, func() { s.Call(2) })
	assert.Panics(t, func() { s.Call(-1) })
	assert.Panics(t, func() { s.Department(1) })
}

func TestStore_CopiesAreIndependent(t *testing.T) {
	s := NewStore(&fakeFetcher{calls: makeCalls(2)})
	s.Refresh(context.Background(), KindCalls)

	calls := s.Calls()
	calls[0].Description = "mutated"
	assert.Equal(t, "Problem 0", s.Call(0).Description)
}
