package selection

import (
	"context"
	"fmt"
	"log"

	"andon-console/internal/store"
)

// Storage keys.
const (
	CallsKey      = "nvs_calls"
	DepartmentKey = "nvs_dept"
)

// Persister reads and writes the selections through a key-value store.
type Persister struct {
	kv store.KV
}

// NewPersister creates a persister over kv.
func NewPersister(kv store.KV) *Persister {
	return &Persister{kv: kv}
}

// Seed writes the all-absent encoding under every key that has never been
// written, so a missing key and an unset selection read the same.
func (p *Persister) Seed(ctx context.Context) error {
	calls, _ := EncodeCalls([SlotCount]ActiveCall{})
	if err := p.kv.SeedIfMissing(ctx, CallsKey, calls); err != nil {
		return err
	}
	dept, _ := EncodeDepartment(ActiveDepartment{})
	return p.kv.SeedIfMissing(ctx, DepartmentKey, dept)
}

// LoadCalls returns the stored call slots. Read or decode failures are logged
// and yield all slots absent.
func (p *Persister) LoadCalls(ctx context.Context) [SlotCount]ActiveCall {
	raw, err := p.kv.Get(ctx, CallsKey)
	if err != nil {
		log.Printf("selection: read %s: %v", CallsKey, err)
		return [SlotCount]ActiveCall{}
	}
	calls, err := DecodeCalls(raw)
	if err != nil {
		log.Printf("selection: decode %s: %v", CallsKey, err)
		return [SlotCount]ActiveCall{}
	}
	return calls
}

// LoadDepartment returns the stored department, or all-absent on failure.
func (p *Persister) LoadDepartment(ctx context.Context) ActiveDepartment {
	raw, err := p.kv.Get(ctx, DepartmentKey)
	if err != nil {
		log.Printf("selection: read %s: %v", DepartmentKey, err)
		return ActiveDepartment{}
	}
	dept, err := DecodeDepartment(raw)
	if err != nil {
		log.Printf("selection: decode %s: %v", DepartmentKey, err)
		return ActiveDepartment{}
	}
	return dept
}

// SaveCalls overwrites the stored call slots and returns once committed.
func (p *Persister) SaveCalls(ctx context.Context, calls [SlotCount]ActiveCall) error {
	encoded, err := EncodeCalls(calls)
	if err != nil {
		return err
	}
	if err := p.kv.Set(ctx, CallsKey, encoded); err != nil {
		return fmt.Errorf("save calls: %w", err)
	}
	return nil
}

// SaveDepartment overwrites the stored department and returns once committed.
func (p *Persister) SaveDepartment(ctx context.Context, dept ActiveDepartment) error {
	encoded, err := EncodeDepartment(dept)
	if err != nil {
		return err
	}
	if err := p.kv.Set(ctx, DepartmentKey, encoded); err != nil {
		return fmt.Errorf("save department: %w", err)
	}
	return nil
}
