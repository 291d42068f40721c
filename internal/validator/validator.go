// Package validator checks use-case configurations before they are
// deployed. Each use-case type has its own validator; all of them share the
// same update pipeline: load the stored configuration, merge the update into
// it, resolve stale fields, and validate the result as if it were new.
package validator

import (
	"context"
	"errors"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// ModelInfoGetter looks up model metadata by category and sort key. It
// returns usecase.ErrNotFound when no record exists.
type ModelInfoGetter interface {
	GetModelInfo(ctx context.Context, category, sortKey string) (*usecase.ModelInfo, error)
}

// ConfigGetter loads a stored use-case configuration by record key. It
// returns usecase.ErrNotFound when no record exists.
type ConfigGetter interface {
	GetConfig(ctx context.Context, key string) (*usecase.Configuration, error)
}

// Validator validates a use case for create and update flows. Neither
// method modifies its argument; the returned use case carries the
// normalized configuration.
type Validator interface {
	ValidateNewUseCase(ctx context.Context, uc *usecase.UseCase) (*usecase.UseCase, error)
	ValidateUpdateUseCase(ctx context.Context, uc *usecase.UseCase, existingConfigKey string) (*usecase.UseCase, error)
}

// Deps carries the collaborators and deployment context shared by all
// validators.
type Deps struct {
	ModelInfo ModelInfoGetter
	Configs   ConfigGetter

	// Region is the deployment region. MCP runtime images must live in it.
	Region string
	// AccountID, when set, must match the account of referenced gateways.
	AccountID string
}

// Factory builds a validator from its dependencies.
type Factory func(deps Deps) Validator

var registry = map[usecase.Type]Factory{
	usecase.TypeText:         NewChatValidator,
	usecase.TypeAgent:        NewAgentValidator,
	usecase.TypeAgentBuilder: NewAgentBuilderValidator,
	usecase.TypeWorkflow:     NewWorkflowValidator,
	usecase.TypeMCPServer:    NewMCPValidator,
}

func init() {
	for _, t := range usecase.Types {
		if _, ok := registry[t]; !ok {
			panic("validator: no validator registered for use case type " + string(t))
		}
	}
}

// New returns the validator for a use-case type.
func New(t usecase.Type, deps Deps) (Validator, error) {
	factory, ok := registry[t]
	if !ok {
		return nil, usecase.NewValidationError("Unsupported use case type: %s", t)
	}
	return factory(deps), nil
}

// checkFunc validates a complete configuration and returns its normalized
// form. It must not modify cfg.
type checkFunc func(ctx context.Context, cfg *usecase.Configuration) (*usecase.Configuration, error)

// pipeline implements Validator on top of a per-type merge and check.
type pipeline struct {
	deps  Deps
	merge usecase.MergeFunc
	check checkFunc
}

func (p *pipeline) ValidateNewUseCase(ctx context.Context, uc *usecase.UseCase) (*usecase.UseCase, error) {
	if uc == nil || uc.Configuration == nil {
		return nil, usecase.NewValidationError("Use case configuration is required")
	}
	cfg, err := p.check(ctx, uc.Configuration)
	if err != nil {
		return nil, err
	}
	return uc.WithConfiguration(cfg), nil
}

func (p *pipeline) ValidateUpdateUseCase(ctx context.Context, uc *usecase.UseCase, existingConfigKey string) (*usecase.UseCase, error) {
	if uc == nil || uc.Configuration == nil {
		return nil, usecase.NewValidationError("Use case configuration is required")
	}
	existing, err := p.existingConfig(ctx, existingConfigKey)
	if err != nil {
		return nil, err
	}

	merged, err := p.merge(existing, uc.Configuration)
	if err != nil {
		return nil, err
	}
	merged = usecase.ResolveBedrockModelSourceOnUpdate(uc.Configuration, merged)
	merged = usecase.ResolveKnowledgeBaseParamsOnUpdate(uc.Configuration, merged)

	return p.ValidateNewUseCase(ctx, uc.WithConfiguration(merged))
}

func (p *pipeline) existingConfig(ctx context.Context, key string) (*usecase.Configuration, error) {
	if p.deps.Configs == nil {
		return nil, errors.New("validator: no config store configured")
	}
	cfg, err := p.deps.Configs.GetConfig(ctx, key)
	if errors.Is(err, usecase.ErrNotFound) || (err == nil && cfg == nil) {
		return nil, usecase.NewValidationError("No use case config found for the specified key")
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
