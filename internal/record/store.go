package record

import (
	"context"
	"fmt"
	"log"
)

// Fetcher retrieves the current record lists from the backend.
type Fetcher interface {
	FetchCalls(ctx context.Context) ([]CallRecord, error)
	FetchDepartments(ctx context.Context) ([]DeptRecord, error)
}

// Store holds the fixed-capacity record lists. Each refresh replaces a list
// wholesale; a failed refresh leaves it empty.
type Store struct {
	fetcher Fetcher

	calls     [MaxRecords]CallRecord
	callCount int

	depts     [MaxRecords]DeptRecord
	deptCount int
}

// NewStore creates an empty store backed by fetcher.
func NewStore(fetcher Fetcher) *Store {
	return &Store{fetcher: fetcher}
}

// Refresh refetches one list and returns its new length.
func (s *Store) Refresh(ctx context.Context, kind Kind) int {
	switch kind {
	case KindCalls:
		s.callCount = 0
		records, err := s.fetcher.FetchCalls(ctx)
		if err != nil {
			log.Printf("record: refresh %s failed: %v", kind, err)
			return 0
		}
		if len(records) > MaxRecords {
			log.Printf("record: backend returned %d %s, keeping first %d", len(records), kind, MaxRecords)
			records = records[:MaxRecords]
		}
		s.callCount = copy(s.calls[:], records)
		return s.callCount

	case KindDepartments:
		s.deptCount = 0
		records, err := s.fetcher.FetchDepartments(ctx)
		if err != nil {
			log.Printf("record: refresh %s failed: %v", kind, err)
			return 0
		}
		if len(records) > MaxRecords {
			log.Printf("record: backend returned %d %s, keeping first %d", len(records), kind, MaxRecords)
			records = records[:MaxRecords]
		}
		s.deptCount = copy(s.depts[:], records)
		return s.deptCount

	default:
		panic(fmt.Sprintf("record: unknown kind %d", kind))
	}
}

// Count returns the number of live records of kind.
func (s *Store) Count(kind Kind) int {
	switch kind {
	case KindCalls:
		return s.callCount
	case KindDepartments:
		return s.deptCount
	default:
		panic(fmt.Sprintf("record: unknown kind %d", kind))
	}
}

// Call returns call record i. i must be in [0, Count(KindCalls)).
func (s *Store) Call(i int) CallRecord {
	if i < 0 || i >= s.callCount {
		panic(fmt.Sprintf("record: call index %d out of range [0,%d)", i, s.callCount))
	}
	return s.calls[i]
}

// Department returns department record i. i must be in [0, Count(KindDepartments)).
func (s *Store) Department(i int) DeptRecord {
	if i < 0 || i >= s.deptCount {
		panic(fmt.Sprintf("record: department index %d out of range [0,%d)", i, s.deptCount))
	}
	return s.depts[i]
}

// Label returns the display text of record i of kind.
func (s *Store) Label(kind Kind, i int) string {
	if kind == KindCalls {
		return s.Call(i).Label()
	}
	return s.Department(i).Label()
}

// Calls returns a copy of the live call records.
func (s *Store) Calls() []CallRecord {
	out := make([]CallRecord, s.callCount)
	copy(out, s.calls[:s.callCount])
	return out
}

// Departments returns a copy of the live department records.
func (s *Store) Departments() []DeptRecord {
	out := make([]DeptRecord, s.deptCount)
	copy(out, s.depts[:s.deptCount])
	return out
}
