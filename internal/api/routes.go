// Package api exposes the deployment service over HTTP.
package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AltairaLabs/usecase-manager/internal/adapter"
	"github.com/AltairaLabs/usecase-manager/internal/deploy"
	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

const (
	// UserIDHeader carries the caller identity set by the upstream authorizer.
	UserIDHeader = "X-User-Id"

	maxBodyBytes   = 1 << 20
	requestTimeout = 60 * time.Second
)

// pathTypes maps the {type} path segment onto use-case types.
var pathTypes = map[string]usecase.Type{
	"text":          usecase.TypeText,
	"agent":         usecase.TypeAgent,
	"agent-builder": usecase.TypeAgentBuilder,
	"workflow":      usecase.TypeWorkflow,
	"mcp":           usecase.TypeMCPServer,
}

// TypeForPath returns the use-case type named by a {type} path segment.
func TypeForPath(segment string) (usecase.Type, bool) {
	t, ok := pathTypes[segment]
	return t, ok
}

// DeploymentService is the subset of deploy.Service the routes call.
type DeploymentService interface {
	Create(ctx context.Context, req *adapter.Request) (*deploy.DeploymentResult, error)
	Update(ctx context.Context, req *adapter.Request) (*deploy.DeploymentResult, error)
	Delete(ctx context.Context, req *adapter.Request) error
	PermanentlyDelete(ctx context.Context, req *adapter.Request) error
	Get(ctx context.Context, req *adapter.Request) (*deploy.UseCaseDetails, error)
	List(ctx context.Context, req *adapter.Request) (*deploy.ListResult, error)
	UploadSchemas(ctx context.Context, req *adapter.Request) (*deploy.SchemaUploadResult, error)
}

var _ DeploymentService = (*deploy.Service)(nil)

// NewRouter builds the full HTTP handler: /health plus the deployments API.
func NewRouter(svc DeploymentService, health http.Handler, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(requestTimeout),
	)
	r.Method(http.MethodGet, "/health", health)
	r.Mount("/deployments", DeploymentsRouter(svc, log))
	return r
}

// DeploymentsRouter sets up the /deployments/{type} routes.
func DeploymentsRouter(svc DeploymentService, log *slog.Logger) http.Handler {
	routes := &deploymentRoutes{svc: svc}
	handle := func(fn HandlerWithError) http.HandlerFunc {
		return ErrorHandler(log, fn)
	}

	r := chi.NewRouter()
	r.Route("/{type}", func(r chi.Router) {
		r.Post("/", handle(routes.create))
		r.Get("/", handle(routes.list))
		r.Post("/upload-schemas", handle(routes.uploadSchemas))
		r.Get("/{useCaseId}", handle(routes.get))
		r.Patch("/{useCaseId}", handle(routes.update))
		r.Delete("/{useCaseId}", handle(routes.delete))
	})
	return r
}

type deploymentRoutes struct {
	svc DeploymentService
}

// request builds the service request from the path and caller identity.
func (*deploymentRoutes) request(r *http.Request, op usecase.Operation) (*adapter.Request, error) {
	segment := chi.URLParam(r, "type")
	t, ok := TypeForPath(segment)
	if !ok {
		return nil, fmt.Errorf("use case type %q: %w", segment, usecase.ErrNotFound)
	}
	user := r.Header.Get(UserIDHeader)
	if user == "" {
		return nil, errUnauthenticated
	}
	return &adapter.Request{
		Operation:   op,
		UseCaseType: t,
		UseCaseID:   chi.URLParam(r, "useCaseId"),
		UserID:      user,
	}, nil
}

// requestWithBody is request plus the size-limited body.
func (d *deploymentRoutes) requestWithBody(
	w http.ResponseWriter, r *http.Request, op usecase.Operation,
) (*adapter.Request, error) {
	req, err := d.request(r, op)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	req.Body = body
	return req, nil
}

func (d *deploymentRoutes) create(w http.ResponseWriter, r *http.Request) error {
	req, err := d.requestWithBody(w, r, usecase.OperationCreate)
	if err != nil {
		return err
	}
	res, err := d.svc.Create(r.Context(), req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, res)
	return nil
}

func (d *deploymentRoutes) update(w http.ResponseWriter, r *http.Request) error {
	req, err := d.requestWithBody(w, r, usecase.OperationUpdate)
	if err != nil {
		return err
	}
	res, err := d.svc.Update(r.Context(), req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

func (d *deploymentRoutes) delete(w http.ResponseWriter, r *http.Request) error {
	permanent := false
	if v := r.URL.Query().Get("permanent"); v != "" {
		var err error
		if permanent, err = strconv.ParseBool(v); err != nil {
			return usecase.NewValidationError("Invalid value for permanent: %s", v)
		}
	}

	op := usecase.OperationDelete
	if permanent {
		op = usecase.OperationPermanentlyDelete
	}
	req, err := d.request(r, op)
	if err != nil {
		return err
	}

	if permanent {
		err = d.svc.PermanentlyDelete(r.Context(), req)
	} else {
		err = d.svc.Delete(r.Context(), req)
	}
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"useCaseId": req.UseCaseID, "status": "SUCCESS"})
	return nil
}

func (d *deploymentRoutes) get(w http.ResponseWriter, r *http.Request) error {
	req, err := d.request(r, usecase.OperationGet)
	if err != nil {
		return err
	}
	res, err := d.svc.Get(r.Context(), req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

func (d *deploymentRoutes) list(w http.ResponseWriter, r *http.Request) error {
	req, err := d.request(r, usecase.OperationList)
	if err != nil {
		return err
	}

	q := r.URL.Query()
	req.PageNumber = 1
	if v := q.Get("pageNumber"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 1 {
			return usecase.NewValidationError("Invalid pageNumber: %s", v)
		}
		req.PageNumber = n
	}
	req.SearchFilter = q.Get("searchFilter")

	res, err := d.svc.List(r.Context(), req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

func (d *deploymentRoutes) uploadSchemas(w http.ResponseWriter, r *http.Request) error {
	req, err := d.requestWithBody(w, r, usecase.OperationUploadSchema)
	if err != nil {
		return err
	}
	res, err := d.svc.UploadSchemas(r.Context(), req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}
