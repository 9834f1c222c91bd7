package conf

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// GetPgConnStrFromEnv builds the catalog database connection string. The
// password comes from POSTGRES_PW on localhost and from the Secrets Manager
// secret POSTGRES_PASSWORD_SECRET_NAME everywhere else.
func GetPgConnStrFromEnv(ctx context.Context, secrets SecretGetter) (string, error) {
	host := os.Getenv("POSTGRES_HOST")
	var pw string
	if host == "localhost" || secrets == nil {
		pw = os.Getenv("POSTGRES_PW")
	} else {
		secretName := os.Getenv("POSTGRES_PASSWORD_SECRET_NAME")
		secretValue, err := getSecret(ctx, secrets, secretName)
		if err != nil {
			return "", fmt.Errorf("failed to get postgres password from AWS: %w", err)
		}
		var secret struct {
			Password string `json:"password"`
		}
		if err := json.Unmarshal([]byte(secretValue), &secret); err != nil {
			return "", fmt.Errorf("failed to parse postgres password secret: %w", err)
		}
		pw = secret.Password
	}
	user := os.Getenv("POSTGRES_USER")
	port := os.Getenv("POSTGRES_PORT")
	db := os.Getenv("POSTGRES_DB")
	ssl := os.Getenv("POSTGRES_SSLMODE")

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pw, db, ssl), nil
}

func getSecret(ctx context.Context, secrets SecretGetter, secretName string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	result, err := secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return "", err
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretName)
	}
	return *result.SecretString, nil
}
