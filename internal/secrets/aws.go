package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"

	"reportservice/internal/jsonutil"
)

type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretFetcher lê segredos do AWS Secrets Manager. Segredos no formato
// gerado pelo RDS ({"username":..., "password":...}) devolvem só a senha.
type AWSSecretFetcher struct {
	client secretsAPI
}

func NewAWSSecretFetcher(ctx context.Context, region string) (*AWSSecretFetcher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar configurações AWS: %w", err)
	}
	return &AWSSecretFetcher{client: secretsmanager.NewFromConfig(cfg)}, nil
}

func (f *AWSSecretFetcher) GetSecret(ctx context.Context, secretName string) (string, error) {
	out, err := f.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("segredo %s não encontrado: %w", secretName, err)
		}
		return "", fmt.Errorf("erro ao recuperar segredo %s: %w", secretName, err)
	}

	value := strings.TrimSpace(aws.ToString(out.SecretString))
	if value == "" {
		return "", fmt.Errorf("segredo %s está vazio", secretName)
	}
	if strings.HasPrefix(value, "{") {
		var rds struct {
			Password string `json:"password"`
		}
		if err := jsonutil.Unmarshal([]byte(value), &rds); err == nil && rds.Password != "" {
			return rds.Password, nil
		}
	}
	return value, nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorCode() == "ResourceNotFoundException"
}
