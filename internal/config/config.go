// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/AltairaLabs/usecase-manager/internal/adapter"
)

// Config holds the settings of the use-case management service.
type Config struct {
	AWSRegion      string `koanf:"aws_region" validate:"required"`
	IsInternalUser bool   `koanf:"is_internal_user"`

	UserPoolID             string `koanf:"user_pool_id"`
	CognitoPolicyTableName string `koanf:"cognito_policy_table_name"`
	AdminGroupName         string `koanf:"admin_group_name" validate:"required"`

	UseCaseConfigTableName string `koanf:"use_case_config_table_name" validate:"required"`
	UseCasesTable          string `koanf:"use_cases_table" validate:"required"`
	ModelInfoTableName     string `koanf:"model_info_table_name" validate:"required"`

	MultimodalMetadataTableName string `koanf:"multimodal_metadata_table_name"`
	MultimodalDataBucket        string `koanf:"multimodal_data_bucket"`
	SharedEcrCachePrefix        string `koanf:"shared_ecr_cache_prefix"`

	TemplateURLPrefix     string `koanf:"template_url_prefix" validate:"required,url"`
	MCPSchemaUploadBucket string `koanf:"mcp_schema_upload_bucket"`

	Port int `koanf:"port" validate:"min=1,max=65535"`
}

// envKeys maps environment variables onto config paths. Variables not
// listed here are ignored.
var envKeys = map[string]string{
	"AWS_REGION":                     "aws_region",
	"IS_INTERNAL_USER":               "is_internal_user",
	"USER_POOL_ID":                   "user_pool_id",
	"COGNITO_POLICY_TABLE_NAME":      "cognito_policy_table_name",
	"ADMIN_GROUP_NAME":               "admin_group_name",
	"USE_CASE_CONFIG_TABLE_NAME":     "use_case_config_table_name",
	"USE_CASES_TABLE":                "use_cases_table",
	"MODEL_INFO_TABLE_NAME":          "model_info_table_name",
	"MULTIMODAL_METADATA_TABLE_NAME": "multimodal_metadata_table_name",
	"MULTIMODAL_DATA_BUCKET":         "multimodal_data_bucket",
	"SHARED_ECR_CACHE_PREFIX":        "shared_ecr_cache_prefix",
	"TEMPLATE_URL_PREFIX":            "template_url_prefix",
	"MCP_SCHEMA_UPLOAD_BUCKET":       "mcp_schema_upload_bucket",
	"PORT":                           "port",
}

// Default returns the configuration used for anything the environment
// does not set.
func Default() *Config {
	return &Config{
		AdminGroupName: "admin",
		Port:           8080,
	}
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return load(os.Environ)
}

func load(environ func() []string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	err := k.Load(env.Provider(".", env.Opt{
		EnvironFunc: environ,
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envKeys[key]
			if !ok || value == "" {
				return "", nil
			}
			return path, value
		},
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Environment returns the settings adapters stamp into template parameters.
func (c *Config) Environment() adapter.Environment {
	return adapter.Environment{
		IsInternalUser:              c.IsInternalUser,
		UserPoolID:                  c.UserPoolID,
		CognitoPolicyTableName:      c.CognitoPolicyTableName,
		UseCaseConfigTableName:      c.UseCaseConfigTableName,
		MultimodalMetadataTableName: c.MultimodalMetadataTableName,
		MultimodalDataBucket:        c.MultimodalDataBucket,
		SharedEcrCachePrefix:        c.SharedEcrCachePrefix,
	}
}
