package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/logger"
)

// SecretsClient wraps the AWS Secrets Manager client, adapted from the
// teacher's libs/go/client/aws.SecretsManagerClient. ResolveDatabaseURL
// builds one to resolve the RDS DSN when AWSSecretsEnabled is set. No
// command calls ResolveDatabaseURL: cmd/worker, cmd/api and the Lambda
// shims all connect with cfg.DatabaseURL as read from DATABASE_URL.
type SecretsClient struct {
	svc *secretsmanager.Client
}

func NewSecretsClient(ctx context.Context) (*SecretsClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return &SecretsClient{svc: secretsmanager.NewFromConfig(cfg)}, nil
}

// GetSecretString fetches a secret string from Secrets Manager using an ARN
// named by secretArnEnvVar, falling back to fallbackEnvVar on any failure.
// Handles both plain-text secrets and single-key JSON secrets.
func (c *SecretsClient) GetSecretString(ctx context.Context, secretArnEnvVar, fallbackEnvVar string) (string, error) {
	secretArn := os.Getenv(secretArnEnvVar)

	if secretArn != "" {
		result, err := c.svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(secretArn),
		})
		if err == nil && result.SecretString != nil && *result.SecretString != "" {
			raw := *result.SecretString

			var asJSON map[string]string
			if jsonErr := json.Unmarshal([]byte(raw), &asJSON); jsonErr == nil && len(asJSON) == 1 {
				for key, value := range asJSON {
					logger.Info("resolved secret from single-key JSON",
						zap.String("secretArn", secretArn), zap.String("jsonKey", key))
					return value, nil
				}
			}
			return raw, nil
		}
		logger.Warn("secrets manager fetch failed, falling back to env var",
			zap.String("secretArnEnvVar", secretArnEnvVar),
			zap.String("fallbackEnvVar", fallbackEnvVar),
			zap.Error(err))
	}

	if v := os.Getenv(fallbackEnvVar); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("secret not found using ARN env var %q or direct env var %q", secretArnEnvVar, fallbackEnvVar)
}

// GetSecretJSON fetches a JSON secret (e.g. an RDS credential bundle) and
// unmarshals it into target.
func (c *SecretsClient) GetSecretJSON(ctx context.Context, secretArnEnvVar string, target interface{}) error {
	secretArn := os.Getenv(secretArnEnvVar)
	if secretArn == "" {
		return fmt.Errorf("%s not set", secretArnEnvVar)
	}
	result, err := c.svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretArn),
	})
	if err != nil {
		return fmt.Errorf("fetching secret %s: %w", secretArn, err)
	}
	if result.SecretString == nil {
		return fmt.Errorf("secret %s has no string value", secretArn)
	}
	return json.Unmarshal([]byte(*result.SecretString), target)
}

// ResolveDatabaseURL picks the DSN source the way every teacher
// cmd/*/main.go does: local reads DATABASE_URL directly; prod/dev prefer a
// Secrets-Manager-backed ARN, falling back to DATABASE_URL if resolution
// fails.
func ResolveDatabaseURL(ctx context.Context, cfg *Config) (string, error) {
	if !cfg.AWSSecretsEnabled {
		return cfg.DatabaseURL, nil
	}
	client, err := NewSecretsClient(ctx)
	if err != nil {
		logger.Warn("could not construct secrets manager client, using DATABASE_URL", zap.Error(err))
		return cfg.DatabaseURL, nil
	}
	dsn, err := client.GetSecretString(ctx, "DATABASE_URL_SECRET_ARN", "DATABASE_URL")
	if err != nil {
		return "", err
	}
	return dsn, nil
}
