// The action binary runs the same deployment flow as the CLI, driven by
// GitHub Action inputs instead of flags.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sethvargo/go-githubactions"

	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/config"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/deploy"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/inputs"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/logging"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/tfc"
)

func main() {
	cfg := &config.Config{
		Address:          inputs.GetOrDefault("url", config.DefaultAddress),
		Workspace:        githubactions.GetInput("workspace"),
		Prefix:           githubactions.GetInput("prefix"),
		Module:           githubactions.GetInput("module"),
		VariablesFile:    githubactions.GetInput("variables_file"),
		SensitiveFile:    githubactions.GetInput("sensitive_file"),
		TerraformVersion: githubactions.GetInput("terraform_version"),
		Message:          githubactions.GetInput("message"),
		AutoApply:        true,

		// Explicit inputs win over the environment.
		Token:        githubactions.GetInput("terraform_token"),
		Organization: githubactions.GetInput("terraform_organization"),
	}

	if autoApply := inputs.GetBoolPtr("auto_apply"); autoApply != nil {
		cfg.AutoApply = *autoApply
	}

	if err := cfg.LoadEnvironment(); err != nil {
		githubactions.Fatalf("Failed to read credentials: %s", err)
	}

	if err := cfg.Validate(); err != nil {
		githubactions.Fatalf("Invalid inputs: %s", err)
	}

	variables, err := inputs.ParseVariables(githubactions.GetInput("variables"))
	if err != nil {
		githubactions.Fatalf("Failed to parse variables: %s", err)
	}

	client, err := tfc.NewClient(&tfc.Config{Address: cfg.Address, Token: cfg.Token})
	if err != nil {
		githubactions.Fatalf("Failed to create Terraform Cloud client: %s", err)
	}

	logger := logging.New(os.Stderr, logging.ParseLevel(githubactions.GetInput("log_level")))

	deployer := deploy.New(client, cfg, logger)
	deployer.Variables = variables

	result, err := deployer.Run(context.Background())
	if err != nil {
		githubactions.Fatalf("Deployment failed: %s", err)
	}

	githubactions.SetOutput("workspace", result.Workspace)
	githubactions.SetOutput("run_id", result.RunID)
	githubactions.SetOutput("url", result.URL)

	out, err := json.Marshal(result)
	if err != nil {
		githubactions.Fatalf("Failed to encode result: %s", err)
	}

	fmt.Println(string(out))
}
