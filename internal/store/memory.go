package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// MemoryModelInfoStore is an in-memory model-info store.
type MemoryModelInfoStore struct {
	mu    sync.RWMutex
	infos map[string]usecase.ModelInfo
}

// NewMemoryModelInfoStore returns a store holding infos.
func NewMemoryModelInfoStore(infos ...usecase.ModelInfo) *MemoryModelInfoStore {
	s := &MemoryModelInfoStore{infos: make(map[string]usecase.ModelInfo, len(infos))}
	for _, info := range infos {
		s.infos[info.UseCase+"|"+info.SortKey] = info
	}
	return s
}

// LoadModelInfoFile reads a JSON array of model-info records.
func LoadModelInfoFile(path string) (*MemoryModelInfoStore, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied fixture path
	if err != nil {
		return nil, fmt.Errorf("read model info file: %w", err)
	}
	var infos []usecase.ModelInfo
	if err := json.Unmarshal(data, &infos); err != nil {
		return nil, fmt.Errorf("parse model info file %s: %w", path, err)
	}
	return NewMemoryModelInfoStore(infos...), nil
}

// GetModelInfo returns a copy of the stored record, or usecase.ErrNotFound.
func (s *MemoryModelInfoStore) GetModelInfo(_ context.Context, category, sortKey string) (*usecase.ModelInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.infos[category+"|"+sortKey]
	if !ok {
		return nil, usecase.ErrNotFound
	}
	return &info, nil
}

// MemoryConfigStore is an in-memory configuration store. Stored values are
// cloned on the way in and out.
type MemoryConfigStore struct {
	mu      sync.RWMutex
	configs map[string]*usecase.Configuration
}

// NewMemoryConfigStore returns an empty config store.
func NewMemoryConfigStore() *MemoryConfigStore {
	return &MemoryConfigStore{configs: map[string]*usecase.Configuration{}}
}

// GetConfig returns the configuration under key, or usecase.ErrNotFound.
func (s *MemoryConfigStore) GetConfig(_ context.Context, key string) (*usecase.Configuration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[key]
	if !ok {
		return nil, usecase.ErrNotFound
	}
	return cfg.Clone(), nil
}

// PutConfig stores a copy of cfg under key.
func (s *MemoryConfigStore) PutConfig(_ context.Context, key string, cfg *usecase.Configuration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[key] = cfg.Clone()
	return nil
}

// DeleteConfig removes key.
func (s *MemoryConfigStore) DeleteConfig(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.configs, key)
	return nil
}

// MemoryRecordStore is an in-memory record store.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string]usecase.Record
}

// NewMemoryRecordStore returns an empty record store.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: map[string]usecase.Record{}}
}

// GetRecord returns a copy of the record, or usecase.ErrNotFound.
func (s *MemoryRecordStore) GetRecord(_ context.Context, id string) (*usecase.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, usecase.ErrNotFound
	}
	return &rec, nil
}

// PutRecord stores a copy of rec.
func (s *MemoryRecordStore) PutRecord(_ context.Context, rec *usecase.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.UseCaseID] = *rec
	return nil
}

// DeleteRecord removes the record of id.
func (s *MemoryRecordStore) DeleteRecord(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// ListRecords returns the requested page of matching records.
func (s *MemoryRecordStore) ListRecords(_ context.Context, f ListFilter) (*RecordPage, error) {
	s.mu.RLock()
	matched := make([]usecase.Record, 0, len(s.records))
	for _, rec := range s.records {
		if f.matches(&rec) {
			matched = append(matched, rec)
		}
	}
	s.mu.RUnlock()
	return paginate(matched, f), nil
}
