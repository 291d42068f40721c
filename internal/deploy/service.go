// Package deploy runs use-case deployments end to end: it adapts a request,
// validates it, stores the configuration and drives the use case's
// CloudFormation stack.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AltairaLabs/usecase-manager/internal/adapter"
	"github.com/AltairaLabs/usecase-manager/internal/store"
	"github.com/AltairaLabs/usecase-manager/internal/usecase"
	"github.com/AltairaLabs/usecase-manager/internal/validator"
)

// ConfigStore persists use-case configurations by config record key.
type ConfigStore interface {
	validator.ConfigGetter
	PutConfig(ctx context.Context, key string, cfg *usecase.Configuration) error
	DeleteConfig(ctx context.Context, key string) error
}

// RecordStore persists use-case records.
type RecordStore interface {
	GetRecord(ctx context.Context, id string) (*usecase.Record, error)
	PutRecord(ctx context.Context, rec *usecase.Record) error
	DeleteRecord(ctx context.Context, id string) error
	ListRecords(ctx context.Context, f store.ListFilter) (*store.RecordPage, error)
}

// Options configures a Service. ModelInfo, Configs, Records and Stacks are
// required; Directory, Presigner and Gateways are optional.
type Options struct {
	ModelInfo validator.ModelInfoGetter
	Configs   ConfigStore
	Records   RecordStore
	Stacks    StackClient
	Directory Directory
	Presigner Presigner
	Gateways  GatewayResolver

	Env               adapter.Environment
	Region            string
	AccountID         string
	TemplateURLPrefix string
	AdminGroup        string
	Logger            *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service implements the deployment operations.
type Service struct {
	opts Options
	log  *slog.Logger
}

// NewService creates a Service.
func NewService(opts Options) (*Service, error) {
	switch {
	case opts.ModelInfo == nil:
		return nil, errors.New("deploy: model info store is required")
	case opts.Configs == nil:
		return nil, errors.New("deploy: config store is required")
	case opts.Records == nil:
		return nil, errors.New("deploy: record store is required")
	case opts.Stacks == nil:
		return nil, errors.New("deploy: stack client is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{opts: opts, log: log}, nil
}

// DeploymentResult is returned by Create and Update.
type DeploymentResult struct {
	UseCaseID string   `json:"useCaseId"`
	StackID   string   `json:"stackId"`
	Warnings  []string `json:"warnings,omitempty"`
}

// UseCaseDetails is returned by Get.
type UseCaseDetails struct {
	Record *usecase.Record        `json:"record"`
	Config *usecase.Configuration `json:"config,omitempty"`
	Stack  *StackStatus           `json:"stack"`
}

// UseCaseSummary is one listed use case.
type UseCaseSummary struct {
	usecase.Record
	Stack *StackStatus `json:"stack"`
}

// ListResult is a page of use cases.
type ListResult struct {
	Deployments []UseCaseSummary `json:"deployments"`
	NumUseCases int              `json:"numUseCases"`
	NumPages    int              `json:"numPages"`
}

// SchemaUpload pairs a requested schema file with its upload URL.
type SchemaUpload struct {
	FileName   string `json:"fileName"`
	SchemaType string `json:"schemaType"`
	*PresignedUpload
}

// SchemaUploadResult is returned by UploadSchemas.
type SchemaUploadResult struct {
	Uploads []SchemaUpload `json:"uploads"`
}

// withOperation returns a copy of req for op so the caller's request is
// left untouched.
func withOperation(req *adapter.Request, op usecase.Operation) *adapter.Request {
	r := *req
	r.Operation = op
	return &r
}

func (s *Service) adapt(req *adapter.Request) (*adapter.Adapted, error) {
	return adapter.Adapt(req, s.opts.Env)
}

func (s *Service) newValidator(t usecase.Type) (validator.Validator, error) {
	return validator.New(t, validator.Deps{
		ModelInfo: s.opts.ModelInfo,
		Configs:   s.opts.Configs,
		Region:    s.opts.Region,
		AccountID: s.opts.AccountID,
	})
}

// resolveGateway fills gateway identity before validation so the ARN and
// URL checks see the real values.
func (s *Service) resolveGateway(ctx context.Context, cfg *usecase.Configuration) error {
	if s.opts.Gateways == nil || cfg == nil || cfg.MCPParams == nil {
		return nil
	}
	return s.opts.Gateways.ResolveGateway(ctx, cfg.MCPParams.GatewayParams)
}

func (s *Service) warn(uc *usecase.UseCase) []string {
	warnings := validator.Diagnose(uc.Configuration, s.opts.Region)
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		s.log.Warn("use case diagnostic", "use_case_id", uc.UseCaseID, "category", w.Category, "message", w.Message)
		out = append(out, w.String())
	}
	return out
}

func (s *Service) templateURL(t usecase.Type) (string, error) {
	return TemplateURL(s.opts.TemplateURLPrefix, t)
}

func (s *Service) timestamp() string {
	return s.opts.Now().UTC().Format(time.RFC3339)
}

// Create deploys a new use case.
func (s *Service) Create(ctx context.Context, req *adapter.Request) (*DeploymentResult, error) {
	req = withOperation(req, usecase.OperationCreate)
	adapted, err := s.adapt(req)
	if err != nil {
		return nil, err
	}
	uc := adapted.UseCase
	log := s.log.With("operation", req.Operation, "use_case_id", uc.UseCaseID, "use_case_type", uc.UseCaseType)

	if err := s.resolveGateway(ctx, uc.Configuration); err != nil {
		return nil, err
	}
	v, err := s.newValidator(uc.UseCaseType)
	if err != nil {
		return nil, err
	}
	validated, err := v.ValidateNewUseCase(ctx, uc)
	if err != nil {
		return nil, err
	}
	warnings := s.warn(validated)

	stackName := usecase.StackName(validated.UseCaseType, validated.UseCaseID)
	if err := usecase.ValidateStackName(stackName); err != nil {
		return nil, usecase.NewValidationError("%s", err.Error())
	}
	templateURL, err := s.templateURL(validated.UseCaseType)
	if err != nil {
		return nil, err
	}

	key := validated.ConfigRecordKey()
	if err := s.opts.Configs.PutConfig(ctx, key, validated.Configuration); err != nil {
		return nil, err
	}

	stackID, err := s.opts.Stacks.CreateStack(ctx, &StackInput{
		StackName:   stackName,
		TemplateURL: templateURL,
		Parameters:  validated.CfnParameters,
		Tags:        usecase.StackTags(validated, s.opts.AccountID, adapted.Tags),
	})
	if err != nil {
		if delErr := s.opts.Configs.DeleteConfig(ctx, key); delErr != nil {
			log.Error("failed to remove config after stack create failure", "key", key, "error", delErr)
		}
		return nil, err
	}

	rec := &usecase.Record{
		UseCaseID:              validated.UseCaseID,
		Name:                   validated.Name,
		UseCaseType:            validated.UseCaseType,
		Description:            validated.Description,
		CreatedBy:              validated.UserID,
		CreatedDate:            s.timestamp(),
		StackID:                stackID,
		UseCaseConfigRecordKey: key,
		UseCaseConfigTableName: s.opts.Env.UseCaseConfigTableName,
		TenantID:               validated.TenantID,
		Status:                 usecase.RecordStatusActive,
	}
	if err := s.opts.Records.PutRecord(ctx, rec); err != nil {
		return nil, err
	}

	s.grantDefaultUser(ctx, log, validated)
	log.Info("use case created", "stack_id", stackID)
	return &DeploymentResult{UseCaseID: validated.UseCaseID, StackID: stackID, Warnings: warnings}, nil
}

// grantDefaultUser gives the default user access to the use case's group.
// Failures are logged; the deployment itself has already succeeded.
func (s *Service) grantDefaultUser(ctx context.Context, log *slog.Logger, uc *usecase.UseCase) {
	email, ok := uc.CfnParameters.Get(usecase.ParamDefaultUserEmail)
	if !ok || s.opts.Directory == nil {
		return
	}
	pool, ok := uc.CfnParameters.Get(usecase.ParamExistingCognitoUserPoolID)
	if !ok {
		return
	}
	if err := s.opts.Directory.GrantAccess(ctx, pool, email, uc.ShortID()); err != nil {
		log.Error("failed to grant default user access", "error", err)
	}
}

// Update redeploys an existing use case with a partial configuration.
func (s *Service) Update(ctx context.Context, req *adapter.Request) (*DeploymentResult, error) {
	req = withOperation(req, usecase.OperationUpdate)
	adapted, err := s.adapt(req)
	if err != nil {
		return nil, err
	}
	uc := adapted.UseCase
	log := s.log.With("operation", req.Operation, "use_case_id", uc.UseCaseID, "use_case_type", uc.UseCaseType)

	rec, err := s.accessibleRecord(ctx, uc.UseCaseID, req.UserID)
	if err != nil {
		return nil, err
	}
	if rec.UseCaseType != uc.UseCaseType {
		return nil, usecase.NewValidationError("Use case %s is of type %s, not %s.", rec.UseCaseID, rec.UseCaseType, uc.UseCaseType)
	}
	if rec.IsDeleted() {
		return nil, usecase.NewValidationError("Use case %s has been deleted and cannot be updated.", rec.UseCaseID)
	}

	if err := s.resolveGateway(ctx, uc.Configuration); err != nil {
		return nil, err
	}
	v, err := s.newValidator(uc.UseCaseType)
	if err != nil {
		return nil, err
	}
	validated, err := v.ValidateUpdateUseCase(ctx, uc, rec.UseCaseConfigRecordKey)
	if err != nil {
		return nil, err
	}
	warnings := s.warn(validated)

	templateURL, err := s.templateURL(validated.UseCaseType)
	if err != nil {
		return nil, err
	}

	key := validated.ConfigRecordKey()
	if err := s.opts.Configs.PutConfig(ctx, key, validated.Configuration); err != nil {
		return nil, err
	}

	tagged := validated.Clone()
	tagged.UserID = rec.CreatedBy
	stackID, err := s.opts.Stacks.UpdateStack(ctx, &StackInput{
		StackID:     rec.StackID,
		TemplateURL: templateURL,
		Parameters:  validated.CfnParameters,
		Tags:        usecase.StackTags(tagged, s.opts.AccountID, adapted.Tags),
	})
	if err != nil {
		if delErr := s.opts.Configs.DeleteConfig(ctx, key); delErr != nil {
			log.Error("failed to remove config after stack update failure", "key", key, "error", delErr)
		}
		return nil, err
	}

	previousKey := rec.UseCaseConfigRecordKey
	rec.UseCaseConfigRecordKey = key
	rec.UpdatedDate = s.timestamp()
	rec.StackID = stackID
	if validated.Configuration.UseCaseName != "" {
		rec.Name = validated.Configuration.UseCaseName
	}
	if d := validated.Configuration.UseCaseDescription; d != nil {
		rec.Description = *d
	}
	if err := s.opts.Records.PutRecord(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.opts.Configs.DeleteConfig(ctx, previousKey); err != nil {
		log.Error("failed to remove superseded config", "key", previousKey, "error", err)
	}

	log.Info("use case updated", "stack_id", stackID)
	return &DeploymentResult{UseCaseID: rec.UseCaseID, StackID: stackID, Warnings: warnings}, nil
}

// Delete removes a use case's stack and marks its record deleted. The
// configuration is kept so the use case can still be inspected.
func (s *Service) Delete(ctx context.Context, req *adapter.Request) error {
	req = withOperation(req, usecase.OperationDelete)
	adapted, err := s.adapt(req)
	if err != nil {
		return err
	}
	rec, err := s.accessibleRecord(ctx, adapted.UseCase.UseCaseID, req.UserID)
	if err != nil {
		return err
	}
	if rec.IsDeleted() {
		return nil
	}
	if err := s.opts.Stacks.DeleteStack(ctx, rec.StackID); err != nil {
		return err
	}

	rec.Status = usecase.RecordStatusDeleted
	rec.UpdatedDate = s.timestamp()
	if err := s.opts.Records.PutRecord(ctx, rec); err != nil {
		return err
	}
	s.log.Info("use case deleted", "use_case_id", rec.UseCaseID, "stack_id", rec.StackID)
	return nil
}

// PermanentlyDelete removes the stack, configuration and record of a use
// case.
func (s *Service) PermanentlyDelete(ctx context.Context, req *adapter.Request) error {
	req = withOperation(req, usecase.OperationPermanentlyDelete)
	adapted, err := s.adapt(req)
	if err != nil {
		return err
	}
	rec, err := s.accessibleRecord(ctx, adapted.UseCase.UseCaseID, req.UserID)
	if err != nil {
		return err
	}
	log := s.log.With("operation", req.Operation, "use_case_id", rec.UseCaseID)

	if !rec.IsDeleted() {
		if err := s.opts.Stacks.DeleteStack(ctx, rec.StackID); err != nil {
			return err
		}
	}
	if err := s.opts.Configs.DeleteConfig(ctx, rec.UseCaseConfigRecordKey); err != nil {
		return err
	}
	if err := s.opts.Records.DeleteRecord(ctx, rec.UseCaseID); err != nil {
		return err
	}
	if s.opts.Directory != nil && s.opts.Env.UserPoolID != "" {
		if err := s.opts.Directory.RemoveGroup(ctx, s.opts.Env.UserPoolID, usecase.ShortID(rec.UseCaseID)); err != nil {
			log.Error("failed to remove use case group", "error", err)
		}
	}
	log.Info("use case permanently deleted")
	return nil
}

// Get returns a use case's record, configuration and stack status.
func (s *Service) Get(ctx context.Context, req *adapter.Request) (*UseCaseDetails, error) {
	req = withOperation(req, usecase.OperationGet)
	adapted, err := s.adapt(req)
	if err != nil {
		return nil, err
	}
	rec, err := s.accessibleRecord(ctx, adapted.UseCase.UseCaseID, req.UserID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.opts.Configs.GetConfig(ctx, rec.UseCaseConfigRecordKey)
	if err != nil && !errors.Is(err, usecase.ErrNotFound) {
		return nil, err
	}
	return &UseCaseDetails{Record: rec, Config: cfg, Stack: s.stackStatus(ctx, rec)}, nil
}

// List returns a page of the caller's use cases, or of all use cases when
// the caller is an administrator.
func (s *Service) List(ctx context.Context, req *adapter.Request) (*ListResult, error) {
	req = withOperation(req, usecase.OperationList)
	adapted, err := s.adapt(req)
	if err != nil {
		return nil, err
	}
	lr := adapted.List

	filter := store.ListFilter{
		UseCaseType: lr.UseCaseType,
		CreatedBy:   lr.UserID,
		Search:      lr.SearchFilter,
		PageNumber:  lr.PageNumber,
	}
	admin, err := s.isAdmin(ctx, lr.UserID)
	if err != nil {
		return nil, err
	}
	if admin {
		filter.CreatedBy = ""
	}

	page, err := s.opts.Records.ListRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &ListResult{
		Deployments: make([]UseCaseSummary, 0, len(page.Records)),
		NumUseCases: page.Total,
		NumPages:    page.NumPages,
	}
	for i := range page.Records {
		rec := &page.Records[i]
		out.Deployments = append(out.Deployments, UseCaseSummary{Record: *rec, Stack: s.stackStatus(ctx, rec)})
	}
	return out, nil
}

// UploadSchemas returns presigned upload URLs for gateway target schemas.
func (s *Service) UploadSchemas(ctx context.Context, req *adapter.Request) (*SchemaUploadResult, error) {
	req = withOperation(req, usecase.OperationUploadSchema)
	adapted, err := s.adapt(req)
	if err != nil {
		return nil, err
	}
	if s.opts.Presigner == nil {
		return nil, errors.New("deploy: schema uploads are not configured")
	}

	up := adapted.SchemaUpload
	out := &SchemaUploadResult{Uploads: make([]SchemaUpload, 0, len(up.Files))}
	for _, f := range up.Files {
		presigned, err := s.opts.Presigner.PresignUpload(ctx, f.Key, map[string]string{
			usecase.TagKeyCreatedBy: up.UserID,
		})
		if err != nil {
			return nil, err
		}
		out.Uploads = append(out.Uploads, SchemaUpload{FileName: f.FileName, SchemaType: f.SchemaType, PresignedUpload: presigned})
	}
	return out, nil
}

// stackStatus describes the record's stack. Lookup failures are logged and
// reported as an unknown state rather than failing the read.
func (s *Service) stackStatus(ctx context.Context, rec *usecase.Record) *StackStatus {
	if rec.StackID == "" {
		return newStackStatus("", "", "", nil)
	}
	st, err := s.opts.Stacks.DescribeStack(ctx, rec.StackID)
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return newStackStatus(rec.StackID, "DELETE_COMPLETE", "", nil)
	case err != nil:
		s.log.Error("failed to describe stack", "use_case_id", rec.UseCaseID, "stack_id", rec.StackID, "error", err)
		return newStackStatus(rec.StackID, "", "", nil)
	}
	return st
}

// accessibleRecord loads a record the caller may act on. Records owned by
// someone else are reported as missing unless the caller is an admin.
func (s *Service) accessibleRecord(ctx context.Context, id, user string) (*usecase.Record, error) {
	rec, err := s.opts.Records.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return nil, fmt.Errorf("use case %s: %w", id, usecase.ErrNotFound)
		}
		return nil, err
	}
	if rec.CreatedBy == user {
		return rec, nil
	}
	admin, err := s.isAdmin(ctx, user)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, fmt.Errorf("use case %s: %w", id, usecase.ErrNotFound)
	}
	return rec, nil
}

func (s *Service) isAdmin(ctx context.Context, user string) (bool, error) {
	if s.opts.Directory == nil || s.opts.AdminGroup == "" || s.opts.Env.UserPoolID == "" || user == "" {
		return false, nil
	}
	return s.opts.Directory.InGroup(ctx, s.opts.Env.UserPoolID, user, s.opts.AdminGroup)
}
