// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	values map[string]*secretsmanager.GetSecretValueOutput
	err    error
	last   *secretsmanager.GetSecretValueInput
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	out, ok := f.values[aws.ToString(in.SecretId)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("Secrets Manager can't find the specified secret.")}
	}
	return out, nil
}

func TestSecretsManager_Fetch(t *testing.T) {
	fake := &fakeSecrets{values: map[string]*secretsmanager.GetSecretValueOutput{
		"prod/app": {SecretString: aws.String(`{"user":"u"}`)},
		"prod/bin": {SecretBinary: []byte(`{"bin":true}`)},
		"prod/nil": {},
	}}
	sm := NewSecretsManagerFromClient(fake)
	ctx := context.Background()

	doc, err := sm.Fetch(ctx, "prod/app")
	require.NoError(t, err)
	assert.Equal(t, `{"user":"u"}`, doc)
	assert.Nil(t, fake.last.VersionStage)

	doc, err = sm.Fetch(ctx, "prod/bin")
	require.NoError(t, err)
	assert.Equal(t, `{"bin":true}`, doc)

	_, err = sm.Fetch(ctx, "prod/nil")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSecretsManager_NotFound(t *testing.T) {
	sm := NewSecretsManagerFromClient(&fakeSecrets{})

	_, err := sm.Fetch(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)

	var rnf *types.ResourceNotFoundException
	assert.ErrorAs(t, err, &rnf)
}

func TestSecretsManager_PassesThroughErrors(t *testing.T) {
	boom := errors.New("access denied")
	sm := NewSecretsManagerFromClient(&fakeSecrets{err: boom})

	_, err := sm.Fetch(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestSecretsManager_VersionStage(t *testing.T) {
	fake := &fakeSecrets{values: map[string]*secretsmanager.GetSecretValueOutput{
		"app": {SecretString: aws.String(`{}`)},
	}}
	sm := NewSecretsManagerFromClient(fake).WithVersionStage("AWSPREVIOUS")

	_, err := sm.Fetch(context.Background(), "app")
	require.NoError(t, err)
	assert.Equal(t, "AWSPREVIOUS", aws.ToString(fake.last.VersionStage))
}
