package usecase

import (
	"encoding/json"
	"iter"
	"slices"
)

// ParameterMap is an insertion-ordered string→string map holding the
// infrastructure template parameters of a use case.
type ParameterMap struct {
	keys   []string
	values map[string]string
}

// NewParameterMap returns an empty ParameterMap.
func NewParameterMap() *ParameterMap {
	return &ParameterMap{values: make(map[string]string)}
}

// Set stores value under key, keeping the original position of an
// existing key.
func (p *ParameterMap) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value for key and whether it was present.
func (p *ParameterMap) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether key is present.
func (p *ParameterMap) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Delete removes key if present.
func (p *ParameterMap) Delete(key string) {
	if p == nil {
		return
	}
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == key })
}

// Len returns the number of parameters.
func (p *ParameterMap) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the parameter names in insertion order.
func (p *ParameterMap) Keys() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.keys)
}

// All iterates over the parameters in insertion order.
func (p *ParameterMap) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if p == nil {
			return
		}
		for _, k := range p.keys {
			if !yield(k, p.values[k]) {
				return
			}
		}
	}
}

// ToMap returns an unordered copy of the parameters.
func (p *ParameterMap) ToMap() map[string]string {
	out := make(map[string]string, p.Len())
	for k, v := range p.All() {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy.
func (p *ParameterMap) Clone() *ParameterMap {
	if p == nil {
		return nil
	}
	c := &ParameterMap{
		keys:   slices.Clone(p.keys),
		values: make(map[string]string, len(p.values)),
	}
	for k, v := range p.values {
		c.values[k] = v
	}
	return c
}

// Equal reports whether both maps hold the same parameters in the same order.
func (p *ParameterMap) Equal(other *ParameterMap) bool {
	if p.Len() != other.Len() {
		return false
	}
	for i, k := range p.Keys() {
		if other.keys[i] != k || other.values[k] != p.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the parameters as a JSON object in insertion order.
func (p *ParameterMap) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range p.Keys() {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	return append(buf, '}'), nil
}
