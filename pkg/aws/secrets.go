package aws

import (
	"context"
	"fmt"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// secretCacheTTL bounds how long a fetched secret is served from memory, so
// rotated credentials are picked up without a restart.
const secretCacheTTL = 5 * time.Minute

type cachedSecret struct {
	value     string
	fetchedAt time.Time
}

// SecretsClient reads secrets from AWS Secrets Manager under a fixed
// namespace, caching each value for a short period.
type SecretsClient struct {
	client    *secretsmanager.Client
	namespace string
	cache     map[string]cachedSecret
	mu        sync.RWMutex
}

// NewSecretsClient creates a SecretsClient scoped to the given namespace.
// Secrets are looked up as "<namespace>/<name>".
func NewSecretsClient(cfg sdkaws.Config, namespace string) *SecretsClient {
	return &SecretsClient{
		client:    secretsmanager.NewFromConfig(cfg),
		namespace: namespace,
		cache:     make(map[string]cachedSecret),
	}
}

// GetSecret returns the string value of the named secret within the client's
// namespace, serving from cache while the entry is still fresh.
func (s *SecretsClient) GetSecret(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	entry, ok := s.cache[name]
	s.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) < secretCacheTTL {
		return entry.value, nil
	}

	secretID := s.namespace + "/" + name
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &secretID})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", secretID, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretID)
	}

	s.mu.Lock()
	s.cache[name] = cachedSecret{value: *out.SecretString, fetchedAt: time.Now()}
	s.mu.Unlock()

	return *out.SecretString, nil
}
