package common

import (
	"reflect"
	"sync"
)

// FieldInfo is the placement of one struct field.
type FieldInfo struct {
	Name   string
	Kind   reflect.Kind
	Offset uintptr
	Size   uintptr
	Align  uintptr
	// Gap is the implicit padding inserted before this field.
	Gap uintptr
}

// StructPlan is the field placement of a struct type in declaration order.
type StructPlan struct {
	Size   uintptr
	Align  uintptr
	Fields []FieldInfo
	// Trailing is the padding after the last field.
	Trailing uintptr
}

var (
	planMu sync.RWMutex
	plans  = make(map[reflect.Type]*StructPlan)
)

// PlanOf returns the cached placement plan for struct type t, or nil when t
// is not a struct.
func PlanOf(t reflect.Type) *StructPlan {
	if t.Kind() != reflect.Struct {
		return nil
	}
	planMu.RLock()
	if p, ok := plans[t]; ok {
		planMu.RUnlock()
		return p
	}
	planMu.RUnlock()

	planMu.Lock()
	defer planMu.Unlock()

	// Double-check
	if p, ok := plans[t]; ok {
		return p
	}

	p := &StructPlan{
		Size:   t.Size(),
		Align:  uintptr(t.Align()),
		Fields: make([]FieldInfo, 0, t.NumField()),
	}
	var end uintptr
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		p.Fields = append(p.Fields, FieldInfo{
			Name:   sf.Name,
			Kind:   sf.Type.Kind(),
			Offset: sf.Offset,
			Size:   sf.Type.Size(),
			Align:  uintptr(sf.Type.FieldAlign()),
			Gap:    sf.Offset - end,
		})
		end = sf.Offset + sf.Type.Size()
	}
	p.Trailing = p.Size - end
	plans[t] = p
	return p
}

// Field returns the placement of the named field.
func (p *StructPlan) Field(name string) (FieldInfo, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldInfo{}, false
}
