package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/ZaguanLabs/livetl"
)

// LambdaInvoker is the subset of the Lambda client used by LambdaEngine.
type LambdaInvoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaEngine implements Engine by invoking a translator Lambda function.
type LambdaEngine struct {
	client       LambdaInvoker
	functionName string
}

// LambdaConfig holds configuration for the Lambda engine.
type LambdaConfig struct {
	FunctionName string // Translator function name or ARN
	Region       string // AWS region (default: from the environment)
}

// lambdaRequest is the payload format of translator functions (chunked mode).
type lambdaRequest struct {
	Chunks     [][]string `json:"chunks"`
	TargetLang string     `json:"target_lang"`
}

// lambdaResponse is the response format of translator functions.
type lambdaResponse struct {
	Translations [][]string `json:"translations"`
	Error        string     `json:"error,omitempty"`
}

// NewLambdaEngine loads the default AWS config and creates a Lambda engine.
func NewLambdaEngine(ctx context.Context, cfg LambdaConfig) (*LambdaEngine, error) {
	if cfg.FunctionName == "" {
		return nil, fmt.Errorf("lambda function name is required")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewLambdaEngineFromClient(lambda.NewFromConfig(awsCfg), cfg.FunctionName), nil
}

// NewLambdaEngineFromClient creates a Lambda engine from an existing client.
func NewLambdaEngineFromClient(client LambdaInvoker, functionName string) *LambdaEngine {
	return &LambdaEngine{
		client:       client,
		functionName: functionName,
	}
}

// Translate sends the text as a single one-item chunk.
func (e *LambdaEngine) Translate(ctx context.Context, text, language string) (string, error) {
	if _, ok := livetl.LookupLanguage(language); !ok {
		return "", livetl.ErrUnknownLanguage
	}

	payload, err := json.Marshal(lambdaRequest{
		Chunks:     [][]string{{text}},
		TargetLang: livetl.ISOCode(language),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := e.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(e.functionName),
		Payload:      payload,
	})
	if err != nil {
		return "", &livetl.ProviderError{
			Message:   fmt.Sprintf("failed to invoke %s", e.functionName),
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if result.FunctionError != nil {
		return "", &livetl.ProviderError{
			Message: fmt.Sprintf("lambda error: %s", aws.ToString(result.FunctionError)),
		}
	}

	var resp lambdaResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return "", &livetl.ProviderError{Message: "failed to parse lambda response", Cause: err}
	}

	if resp.Error != "" {
		return "", &livetl.ProviderError{Message: fmt.Sprintf("translator error: %s", resp.Error)}
	}

	if len(resp.Translations) == 0 || len(resp.Translations[0]) == 0 {
		return "", &livetl.ProviderError{Message: "empty lambda response"}
	}

	return resp.Translations[0][0], nil
}

// Name implements Engine.
func (e *LambdaEngine) Name() string {
	return "lambda:" + e.functionName
}

// Verify LambdaEngine implements Engine
var _ Engine = (*LambdaEngine)(nil)
