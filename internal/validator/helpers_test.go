package validator

import (
	"context"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

type fakeModelInfo struct {
	records map[string]*usecase.ModelInfo
	err     error
	calls   []string
}

func (f *fakeModelInfo) GetModelInfo(_ context.Context, category, sortKey string) (*usecase.ModelInfo, error) {
	f.calls = append(f.calls, category+"|"+sortKey)
	if f.err != nil {
		return nil, f.err
	}
	info, ok := f.records[category+"|"+sortKey]
	if !ok {
		return nil, usecase.ErrNotFound
	}
	return info, nil
}

type fakeConfigs struct {
	configs map[string]*usecase.Configuration
	err     error
}

func (f *fakeConfigs) GetConfig(_ context.Context, key string) (*usecase.Configuration, error) {
	if f.err != nil {
		return nil, f.err
	}
	cfg, ok := f.configs[key]
	if !ok {
		return nil, usecase.ErrNotFound
	}
	return cfg.Clone(), nil
}

func testModelInfo(category, sortKey string) *usecase.ModelInfo {
	return &usecase.ModelInfo{
		UseCase:              category,
		SortKey:              sortKey,
		AllowsStreaming:      true,
		Prompt:               "You are helpful.\n{history}\n{input}",
		DisambiguationPrompt: "Rephrase {input} given {history}",
		MinTemperature:       0,
		MaxTemperature:       1,
		DefaultTemperature:   0.5,
		MaxPromptSize:        1000,
		MemoryConfig: map[string]string{
			usecase.MemoryConfigHumanPrefix: "Human",
			usecase.MemoryConfigAiPrefix:    "AI",
		},
	}
}

func newFakeModelInfo(infos ...*usecase.ModelInfo) *fakeModelInfo {
	f := &fakeModelInfo{records: map[string]*usecase.ModelInfo{}}
	for _, info := range infos {
		f.records[info.UseCase+"|"+info.SortKey] = info
	}
	return f
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func ucWith(t usecase.Type, cfg *usecase.Configuration) *usecase.UseCase {
	cfg.UseCaseType = t
	return &usecase.UseCase{
		UseCaseID:     "11111111-2222-3333-4444-555555555555",
		Name:          "test",
		CfnParameters: usecase.NewParameterMap(),
		Configuration: cfg,
		UserID:        "user-1",
		UseCaseType:   t,
	}
}
