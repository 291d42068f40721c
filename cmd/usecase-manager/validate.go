package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AltairaLabs/usecase-manager/internal/adapter"
	"github.com/AltairaLabs/usecase-manager/internal/api"
	"github.com/AltairaLabs/usecase-manager/internal/store"
	"github.com/AltairaLabs/usecase-manager/internal/usecase"
	"github.com/AltairaLabs/usecase-manager/internal/validator"
)

const (
	offlineUser       = "offline"
	offlineUseCaseID  = "00000000-0000-0000-0000-000000000000"
	existingConfigKey = "existing"
)

type validateOptions struct {
	useCaseType string
	modelInfo   string
	existing    string
	region      string
	accountID   string
}

// validateResult is what a successful validation prints.
type validateResult struct {
	UseCaseID  string                 `json:"useCaseId"`
	Parameters *usecase.ParameterMap  `json:"parameters"`
	Config     *usecase.Configuration `json:"config"`
	Warnings   []string               `json:"warnings,omitempty"`
}

func newValidateCmd() *cobra.Command {
	var opts validateOptions
	cmd := &cobra.Command{
		Use:   "validate REQUEST_FILE",
		Short: "Validate a deployment request without deploying it",
		Long: `Validate a create request body against model metadata read from a
JSON file. With --existing the body is validated as an update of the given
stored configuration. The validated configuration and template parameters
are printed as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.useCaseType, "type", "text", "use case type: text, agent, agent-builder, workflow or mcp")
	f.StringVar(&opts.modelInfo, "model-info", "", "JSON file with the model info records")
	f.StringVar(&opts.existing, "existing", "", "JSON file with the stored configuration to update")
	f.StringVar(&opts.region, "region", "", "deployment region used for region checks")
	f.StringVar(&opts.accountID, "account-id", "", "deployment account used for gateway checks")
	_ = cmd.MarkFlagRequired("model-info")

	return cmd
}

func runValidate(ctx context.Context, out, errOut io.Writer, opts validateOptions, path string) error {
	t, ok := api.TypeForPath(opts.useCaseType)
	if !ok {
		return fmt.Errorf("unknown use case type %q", opts.useCaseType)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	models, err := store.LoadModelInfoFile(opts.modelInfo)
	if err != nil {
		return err
	}

	configs := store.NewMemoryConfigStore()
	req := &adapter.Request{
		Operation:   usecase.OperationCreate,
		UseCaseType: t,
		UserID:      offlineUser,
		Body:        body,
	}
	if opts.existing != "" {
		existing, err := readConfigFile(opts.existing)
		if err != nil {
			return err
		}
		if err := configs.PutConfig(ctx, existingConfigKey, existing); err != nil {
			return err
		}
		req.Operation = usecase.OperationUpdate
		req.UseCaseID = offlineUseCaseID
	}

	adapted, err := adapter.Adapt(req, adapter.Environment{})
	if err != nil {
		return err
	}
	v, err := validator.New(t, validator.Deps{
		ModelInfo: models,
		Configs:   configs,
		Region:    opts.region,
		AccountID: opts.accountID,
	})
	if err != nil {
		return err
	}

	var uc *usecase.UseCase
	if req.Operation == usecase.OperationUpdate {
		uc, err = v.ValidateUpdateUseCase(ctx, adapted.UseCase, existingConfigKey)
	} else {
		uc, err = v.ValidateNewUseCase(ctx, adapted.UseCase)
	}
	if err != nil {
		return err
	}

	res := validateResult{
		UseCaseID:  uc.UseCaseID,
		Parameters: uc.CfnParameters,
		Config:     uc.Configuration,
	}
	warnings := validator.Diagnose(uc.Configuration, opts.region)
	for _, w := range warnings {
		res.Warnings = append(res.Warnings, w.String())
	}
	if len(warnings) > 0 {
		fmt.Fprint(errOut, validator.FormatWarnings(warnings))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func readConfigFile(path string) (*usecase.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read existing config: %w", err)
	}
	var cfg usecase.Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode existing config %s: %w", path, err)
	}
	return &cfg, nil
}
