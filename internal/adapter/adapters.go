package adapter

import (
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// deploymentAdapter builds the adapter for CREATE and UPDATE. Create
// generates a fresh use-case id; update takes it from the path. Both get a
// fresh config record key so every stored revision has its own record.
func deploymentAdapter(t usecase.Type, build paramBuilder) Adapter {
	return func(req *Request, env Environment) (*Adapted, error) {
		var body DeploymentRequest
		if err := decodeBody(req.Body, &body); err != nil {
			return nil, err
		}

		var id string
		switch req.Operation {
		case usecase.OperationCreate:
			if body.UseCaseName == "" {
				return nil, usecase.NewValidationError("UseCaseName is required")
			}
			id = usecase.NewUseCaseID()
		default:
			if req.UseCaseID == "" {
				return nil, usecase.NewValidationError("UseCaseId is required")
			}
			id = req.UseCaseID
		}

		params := usecase.NewParameterMap()
		setCommonParams(params, id, &body, env)
		if err := setAuthParams(params, &body, env); err != nil {
			return nil, err
		}
		if err := setVpcParams(params, &body); err != nil {
			return nil, err
		}
		build(params, &body, env)

		cfg := body.Configuration.Clone()
		cfg.UseCaseType = t
		internal := env.IsInternalUser
		cfg.IsInternalUser = &internal

		uc := &usecase.UseCase{
			UseCaseID:     id,
			Name:          body.UseCaseName,
			CfnParameters: params,
			Configuration: cfg,
			UserID:        req.UserID,
			UseCaseType:   t,
		}
		if body.UseCaseDescription != nil {
			uc.Description = *body.UseCaseDescription
		}
		if body.LlmParams != nil {
			uc.ProviderName = body.LlmParams.ModelProvider
		}
		return &Adapted{Operation: req.Operation, UseCase: uc, Tags: body.Tags}, nil
	}
}

// infoAdapter serves GET, DELETE and PERMANENTLY_DELETE, which only need
// the path id and the caller.
func infoAdapter(t usecase.Type) Adapter {
	return func(req *Request, _ Environment) (*Adapted, error) {
		if req.UseCaseID == "" {
			return nil, usecase.NewValidationError("UseCaseId is required")
		}
		return &Adapted{
			Operation: req.Operation,
			UseCase: &usecase.UseCase{
				UseCaseID:   req.UseCaseID,
				UserID:      req.UserID,
				UseCaseType: t,
			},
		}, nil
	}
}

// ListRequest is a page of use-case records visible to UserID.
type ListRequest struct {
	UseCaseType  usecase.Type
	UserID       string
	PageNumber   int
	SearchFilter string
}

func listAdapter(t usecase.Type) Adapter {
	return func(req *Request, _ Environment) (*Adapted, error) {
		page := req.PageNumber
		switch {
		case page == 0:
			page = 1
		case page < 0:
			return nil, usecase.NewValidationError("pageNumber must be a positive integer")
		}
		return &Adapted{
			Operation: req.Operation,
			List: &ListRequest{
				UseCaseType:  t,
				UserID:       req.UserID,
				PageNumber:   page,
				SearchFilter: strings.TrimSpace(req.SearchFilter),
			},
		}, nil
	}
}

// schemaExtensions lists the file extensions accepted per gateway target
// schema type.
var schemaExtensions = map[string][]string{
	usecase.TargetTypeOpenAPI: {".json", ".yaml", ".yml"},
	usecase.TargetTypeSmithy:  {".json", ".smithy"},
}

// SchemaUploadRequest lists the object keys to presign for upload.
type SchemaUploadRequest struct {
	UserID string
	Files  []SchemaFile
}

// SchemaFile is one schema to upload and the object key it will live at.
type SchemaFile struct {
	SchemaType string
	FileName   string
	Key        string
}

// SchemaKey builds the object key for an uploaded schema:
// mcp/schemas/{schemaType}/{uuid}{ext}.
func SchemaKey(schemaType, ext string) string {
	return "mcp/schemas/" + schemaType + "/" + uuid.NewString() + ext
}

func schemaUploadAdapter() Adapter {
	return func(req *Request, _ Environment) (*Adapted, error) {
		var body SchemaUploadBody
		if err := decodeBody(req.Body, &body); err != nil {
			return nil, err
		}

		files := make([]SchemaFile, 0, len(body.Files))
		for _, f := range body.Files {
			allowed, ok := schemaExtensions[f.SchemaType]
			if !ok {
				return nil, usecase.NewValidationError("Unsupported schemaType %q for file %s", f.SchemaType, f.FileName)
			}
			ext := strings.ToLower(path.Ext(f.FileName))
			if !slices.Contains(allowed, ext) {
				return nil, usecase.NewValidationError("Invalid file extension %q for schemaType %s: allowed %s",
					ext, f.SchemaType, strings.Join(allowed, ", "))
			}
			files = append(files, SchemaFile{
				SchemaType: f.SchemaType,
				FileName:   f.FileName,
				Key:        SchemaKey(f.SchemaType, ext),
			})
		}
		return &Adapted{
			Operation:    req.Operation,
			SchemaUpload: &SchemaUploadRequest{UserID: req.UserID, Files: files},
		}, nil
	}
}
