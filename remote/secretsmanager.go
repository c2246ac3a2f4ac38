// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManager fetches documents stored as secrets. The id is a secret
// name or ARN.
type SecretsManager struct {
	client       SecretsManagerAPI
	versionStage string
}

// NewSecretsManager builds a client from the default AWS credential chain.
// An empty region falls back to AWS_REGION / shared config.
func NewSecretsManager(ctx context.Context, region string) (*SecretsManager, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSecretsManagerFromClient(secretsmanager.NewFromConfig(cfg)), nil
}

// NewSecretsManagerFromClient wraps an existing client.
func NewSecretsManagerFromClient(client SecretsManagerAPI) *SecretsManager {
	return &SecretsManager{client: client}
}

// WithVersionStage pins the fetched version stage (default AWSCURRENT).
func (s *SecretsManager) WithVersionStage(stage string) *SecretsManager {
	s.versionStage = stage
	return s
}

// Fetch returns SecretString, or SecretBinary when the secret is binary.
func (s *SecretsManager) Fetch(ctx context.Context, id string) (string, error) {
	in := &secretsmanager.GetSecretValueInput{SecretId: aws.String(id)}
	if s.versionStage != "" {
		in.VersionStage = aws.String(s.versionStage)
	}

	out, err := s.client.GetSecretValue(ctx, in)
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%w: secret %q: %w", ErrNotFound, id, err)
		}
		return "", err
	}
	if out.SecretString != nil {
		return *out.SecretString, nil
	}
	if out.SecretBinary != nil {
		return string(out.SecretBinary), nil
	}
	return "", fmt.Errorf("secret %q has no value", id)
}
