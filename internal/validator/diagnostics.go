package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// Warning represents a non-fatal issue found in a use case that validated
// successfully but is likely to fail or misbehave once deployed.
type Warning struct {
	Category string
	Message  string
	Hint     string
}

// String formats the warning for display.
func (w Warning) String() string {
	if w.Hint != "" {
		return fmt.Sprintf("[%s] %s (hint: %s)", w.Category, w.Message, w.Hint)
	}
	return fmt.Sprintf("[%s] %s", w.Category, w.Message)
}

// Warning categories.
const (
	WarnCategoryRegion  = "region"
	WarnCategoryAccount = "account"
	WarnCategoryModel   = "model"
)

// placeholderAccountID is the documentation example account.
const placeholderAccountID = "123456789012"

// agentcoreRegions lists regions where Bedrock AgentCore is available.
var agentcoreRegions = []string{"us-east-1", "us-west-2", "eu-west-1", "ap-southeast-2", "eu-central-1"}

// agentcoreTypes are the use-case types deployed onto AgentCore.
var agentcoreTypes = map[usecase.Type]bool{
	usecase.TypeAgentBuilder: true,
	usecase.TypeWorkflow:     true,
	usecase.TypeMCPServer:    true,
}

// Diagnose inspects a validated use case for likely deploy-time problems.
func Diagnose(cfg *usecase.Configuration, region string) []Warning {
	if cfg == nil {
		return nil
	}
	var warnings []Warning
	warnings = append(warnings, diagnoseRegion(cfg.UseCaseType, region)...)
	warnings = append(warnings, diagnoseAccounts(cfg)...)
	warnings = append(warnings, diagnoseModel(cfg)...)
	return warnings
}

func diagnoseRegion(t usecase.Type, region string) []Warning {
	if region == "" || !agentcoreTypes[t] || slices.Contains(agentcoreRegions, region) {
		return nil
	}
	return []Warning{{
		Category: WarnCategoryRegion,
		Message:  fmt.Sprintf("region %q may not support Bedrock AgentCore, required by %s use cases", region, t),
		Hint:     "supported regions: " + strings.Join(sortedCopy(agentcoreRegions), ", "),
	}}
}

func diagnoseAccounts(cfg *usecase.Configuration) []Warning {
	if cfg.MCPParams == nil {
		return nil
	}
	var arns []string
	if g := cfg.MCPParams.GatewayParams; g != nil {
		if g.GatewayArn != nil {
			arns = append(arns, *g.GatewayArn)
		}
		for _, t := range g.TargetParams {
			arns = append(arns, t.LambdaArn)
			if t.OutboundAuthParams != nil {
				arns = append(arns, t.OutboundAuthParams.OutboundAuthProviderArn)
			}
		}
	}
	if r := cfg.MCPParams.RuntimeParams; r != nil {
		arns = append(arns, r.EcrURI)
	}
	for _, arn := range arns {
		if strings.Contains(arn, placeholderAccountID) {
			return []Warning{{
				Category: WarnCategoryAccount,
				Message:  fmt.Sprintf("%q uses the placeholder account ID %s", arn, placeholderAccountID),
				Hint:     "replace with your real AWS account ID",
			}}
		}
	}
	return nil
}

func diagnoseModel(cfg *usecase.Configuration) []Warning {
	llm := cfg.LlmParams
	if llm == nil || llm.Temperature == nil || *llm.Temperature <= 1 {
		return nil
	}
	return []Warning{{
		Category: WarnCategoryModel,
		Message:  fmt.Sprintf("temperature %g is above 1 and may produce erratic responses", *llm.Temperature),
	}}
}

func sortedCopy(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}

// FormatWarnings returns a multi-line string from a list of warnings,
// suitable for display to the user.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d diagnostic warning(s):\n", len(warnings))
	for i, w := range warnings {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, w.String())
	}
	return b.String()
}
