package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/AltairaLabs/usecase-manager/internal/api"
	"github.com/AltairaLabs/usecase-manager/internal/config"
	"github.com/AltairaLabs/usecase-manager/internal/deploy"
	"github.com/AltairaLabs/usecase-manager/internal/store"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func newServeCmd(log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the deployment API",
		Long: `Serve the deployment API over HTTP.

Configuration is read from the environment: AWS_REGION, the DynamoDB table
names, TEMPLATE_URL_PREFIX and the optional Cognito and S3 settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return serve(cmd.Context(), log, cfg)
		},
	}
}

func serve(ctx context.Context, log *slog.Logger, cfg *config.Config) error {
	svc, err := buildService(ctx, log, cfg)
	if err != nil {
		return err
	}

	health := api.NewHealthHandler()
	handler := api.NewRouter(svc, health, log)

	addr := fmt.Sprintf(":%d", cfg.Port)
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	log.Info("listening", "addr", ln.Addr().String(), "region", cfg.AWSRegion, "version", version)

	return runWithShutdown(ctx, log, ln, handler, health)
}

// buildService wires the deployment service onto the AWS clients for the
// configured region.
func buildService(ctx context.Context, log *slog.Logger, cfg *config.Config) (*deploy.Service, error) {
	clients, err := deploy.NewAWSClients(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}
	accountID, err := deploy.ResolveAccountID(ctx, clients.STS)
	if err != nil {
		return nil, err
	}

	dynamo := store.NewDynamoClient(clients.Config)

	var presigner deploy.Presigner
	if cfg.MCPSchemaUploadBucket != "" {
		presigner = deploy.NewSchemaPresigner(clients.Presign, cfg.MCPSchemaUploadBucket)
	}

	return deploy.NewService(deploy.Options{
		ModelInfo:         store.NewDynamoModelInfoStore(dynamo, cfg.ModelInfoTableName),
		Configs:           store.NewDynamoConfigStore(dynamo, cfg.UseCaseConfigTableName),
		Records:           store.NewDynamoRecordStore(dynamo, cfg.UseCasesTable),
		Stacks:            deploy.NewCloudFormationStacks(clients.CloudFormation),
		Directory:         deploy.NewCognitoDirectory(clients.Cognito),
		Presigner:         presigner,
		Gateways:          deploy.NewAgentCoreGatewayResolver(clients.AgentCore),
		Env:               cfg.Environment(),
		Region:            cfg.AWSRegion,
		AccountID:         accountID,
		TemplateURLPrefix: cfg.TemplateURLPrefix,
		AdminGroup:        cfg.AdminGroupName,
		Logger:            log,
	})
}

// runWithShutdown serves on ln until ctx is cancelled, then drains.
func runWithShutdown(
	ctx context.Context,
	log *slog.Logger,
	ln net.Listener,
	handler http.Handler,
	health *api.HealthHandler,
) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down", "cause", context.Cause(ctx))
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	}

	health.SetDraining()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}
