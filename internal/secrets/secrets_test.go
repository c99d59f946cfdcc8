package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	value string
	err   error
	asked string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.asked = aws.ToString(in.SecretId)
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.value)}, nil
}

type fakeAPIError struct{ code string }

func (e fakeAPIError) ErrorCode() string             { return e.code }
func (e fakeAPIError) ErrorMessage() string          { return e.code }
func (e fakeAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }
func (e fakeAPIError) Error() string                 { return e.code }

func TestDefaultSecretsManager(t *testing.T) {
	t.Setenv("REPORT_DB_PASSWORD", "s3cret")
	s := &DefaultSecretsManager{}

	v, err := s.GetSecret(context.Background(), "REPORT_DB_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)

	_, err = s.GetSecret(context.Background(), "REPORT_DB_PASSWORD_MISSING")
	assert.Error(t, err)
}

func TestAWSSecretFetcherPlainValue(t *testing.T) {
	fake := &fakeSecrets{value: "plain-pass"}
	f := &AWSSecretFetcher{client: fake}

	v, err := f.GetSecret(context.Background(), "db/reports")
	require.NoError(t, err)
	assert.Equal(t, "plain-pass", v)
	assert.Equal(t, "db/reports", fake.asked)
}

func TestAWSSecretFetcherRDSFormat(t *testing.T) {
	f := &AWSSecretFetcher{client: &fakeSecrets{value: `{"username":"reports","password":"rds-pass"}`}}

	v, err := f.GetSecret(context.Background(), "db/reports")
	require.NoError(t, err)
	assert.Equal(t, "rds-pass", v)
}

func TestAWSSecretFetcherErrors(t *testing.T) {
	f := &AWSSecretFetcher{client: &fakeSecrets{err: fakeAPIError{code: "ResourceNotFoundException"}}}
	_, err := f.GetSecret(context.Background(), "db/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "não encontrado")
	assert.True(t, isNotFound(err))

	f = &AWSSecretFetcher{client: &fakeSecrets{err: errors.New("timeout")}}
	_, err = f.GetSecret(context.Background(), "db/reports")
	require.Error(t, err)
	assert.False(t, isNotFound(err))

	f = &AWSSecretFetcher{client: &fakeSecrets{value: "  "}}
	_, err = f.GetSecret(context.Background(), "db/empty")
	assert.Error(t, err)
}
