package adapter

import (
	"fmt"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// Adapted is the output of an adapter. Exactly one of UseCase, List or
// SchemaUpload is set, depending on the operation.
type Adapted struct {
	Operation usecase.Operation

	// UseCase is set for CREATE, UPDATE, GET, DELETE and
	// PERMANENTLY_DELETE. For the last three only identity fields are filled.
	UseCase *usecase.UseCase
	// Tags are user-defined stack tags from a create or update body.
	Tags map[string]string

	List         *ListRequest
	SchemaUpload *SchemaUploadRequest
}

// Adapter turns a request into an Adapted value.
type Adapter func(req *Request, env Environment) (*Adapted, error)

// Factory dispatches requests for one use-case type to the adapter of
// their operation.
type Factory struct {
	useCaseType usecase.Type
	adapters    map[usecase.Operation]Adapter
}

// newFactory builds the operation table shared by all types. Types that
// accept schema uploads pass withSchemaUpload.
func newFactory(t usecase.Type, build paramBuilder, withSchemaUpload bool) *Factory {
	deploy := deploymentAdapter(t, build)
	f := &Factory{
		useCaseType: t,
		adapters: map[usecase.Operation]Adapter{
			usecase.OperationCreate:            deploy,
			usecase.OperationUpdate:            deploy,
			usecase.OperationGet:               infoAdapter(t),
			usecase.OperationDelete:            infoAdapter(t),
			usecase.OperationPermanentlyDelete: infoAdapter(t),
			usecase.OperationList:              listAdapter(t),
		},
	}
	if withSchemaUpload {
		f.adapters[usecase.OperationUploadSchema] = schemaUploadAdapter()
	}
	return f
}

var factories = map[usecase.Type]*Factory{
	usecase.TypeText:         newFactory(usecase.TypeText, textParams, false),
	usecase.TypeAgent:        newFactory(usecase.TypeAgent, agentParams, false),
	usecase.TypeAgentBuilder: newFactory(usecase.TypeAgentBuilder, agentBuilderParams, false),
	usecase.TypeWorkflow:     newFactory(usecase.TypeWorkflow, workflowParams, false),
	usecase.TypeMCPServer:    newFactory(usecase.TypeMCPServer, mcpParams, true),
}

func init() {
	for _, t := range usecase.Types {
		if _, ok := factories[t]; !ok {
			panic(fmt.Sprintf("adapter: no factory registered for use case type %s", t))
		}
	}
}

// ForType returns the adapter factory of a use-case type.
func ForType(t usecase.Type) (*Factory, error) {
	f, ok := factories[t]
	if !ok {
		return nil, usecase.NewValidationError("Unsupported use case type: %s", t)
	}
	return f, nil
}

// UseCaseType returns the type the factory adapts.
func (f *Factory) UseCaseType() usecase.Type {
	return f.useCaseType
}

// Adapt runs the adapter registered for req.Operation.
func (f *Factory) Adapt(req *Request, env Environment) (*Adapted, error) {
	adapt, ok := f.adapters[req.Operation]
	if !ok {
		return nil, usecase.NewValidationError("Unsupported operation %s for use case type %s", req.Operation, f.useCaseType)
	}
	return adapt(req, env)
}

// Adapt is a convenience wrapper around ForType(req.UseCaseType).Adapt.
func Adapt(req *Request, env Environment) (*Adapted, error) {
	f, err := ForType(req.UseCaseType)
	if err != nil {
		return nil, err
	}
	return f.Adapt(req, env)
}
