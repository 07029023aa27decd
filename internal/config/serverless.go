package config

import (
	"os"
	"sync"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda        bool
	FunctionName    string
	FunctionVersion string
	Region          string
	Stage           string
}

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration, read once per process
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = DetectServerless()
	})
	return serverlessConfig
}

// DetectServerless reads the serverless configuration from the environment
func DetectServerless() *ServerlessConfig {
	return &ServerlessConfig{
		IsLambda:        isRunningInLambda(),
		FunctionName:    os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		FunctionVersion: os.Getenv("AWS_LAMBDA_FUNCTION_VERSION"),
		Region:          os.Getenv("AWS_REGION"),
		Stage:           GetEnv("STAGE", "dev"),
	}
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// DeploymentMode returns "serverless" or "server"
func (s *ServerlessConfig) DeploymentMode() string {
	if s.IsLambda {
		return "serverless"
	}
	return "server"
}

// GetOptimizedConfig returns configuration adjusted for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	// CloudWatch keeps its own timestamps and expects one JSON object per line
	if GetServerlessConfig().IsLambda {
		config.Log.Format = "json"
	}

	return config, nil
}
