// Package secrets resolves runtime secrets from environment variables in
// development and from Azure Key Vault in staging and production.
package secrets

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

// SecretSource defines where secrets are loaded from
type SecretSource string

const (
	// SourceEnvironment loads secrets from environment variables
	SourceEnvironment SecretSource = "environment"
	// SourceVault loads secrets from Azure Key Vault
	SourceVault SecretSource = "vault"
	// SourceAuto uses vault in staging/production, environment in development
	SourceAuto SecretSource = "auto"
)

const defaultCacheTTL = 5 * time.Minute

// ProviderConfig holds configuration for the secrets provider
type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// vaultReader is the slice of azsecrets.Client the provider needs
type vaultReader interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// Provider resolves named secrets from the configured source. Vault reads
// go through a short-lived in-memory cache so repeated lookups during
// startup don't hammer Key Vault.
type Provider struct {
	source   SecretSource
	vault    vaultReader
	logger   *zap.Logger
	cacheTTL time.Duration
	caching  bool

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewProvider creates a provider for the configured source. With SourceAuto
// the environment decides: vault outside development, plain env otherwise.
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := cfg.Source
	if source == SourceAuto {
		switch cfg.Environment {
		case "development", "local", "":
			source = SourceEnvironment
		default:
			source = SourceVault
		}
		logger.Info("auto-detected secret source",
			zap.String("source", string(source)),
			zap.String("environment", cfg.Environment),
		)
	}

	p := &Provider{
		source:   source,
		logger:   logger,
		cacheTTL: cfg.CacheTTL,
		caching:  cfg.CacheEnabled,
		cache:    make(map[string]cacheEntry),
	}
	if p.cacheTTL == 0 {
		p.cacheTTL = defaultCacheTTL
	}

	if source == SourceVault {
		if cfg.VaultName == "" {
			return nil, fmt.Errorf("vault name required when using vault secret source")
		}

		// DefaultAzureCredential covers env credentials, Managed Identity
		// and the Azure CLI.
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure credential: %w", err)
		}

		vaultURL := fmt.Sprintf("https://%s.vault.azure.net/", cfg.VaultName)
		client, err := azsecrets.NewClient(vaultURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Key Vault client: %w", err)
		}
		p.vault = client

		logger.Info("Azure Key Vault client initialized",
			zap.String("vault_url", vaultURL),
			zap.Bool("cache_enabled", cfg.CacheEnabled),
		)
	}

	return p, nil
}

// GetSecret retrieves a secret by name. For the vault source the name is
// the Key Vault secret name; for the environment source it is the variable
// name.
func (p *Provider) GetSecret(ctx context.Context, name string) (string, error) {
	switch p.source {
	case SourceEnvironment:
		value := os.Getenv(name)
		if value == "" {
			return "", fmt.Errorf("environment variable '%s' not set", name)
		}
		return value, nil

	case SourceVault:
		return p.vaultSecret(ctx, name)

	default:
		return "", fmt.Errorf("unknown secret source: %s", p.source)
	}
}

// GetSecretOrEnv resolves through the configured source, with an explicit
// environment variable override taking precedence.
func (p *Provider) GetSecretOrEnv(ctx context.Context, name, envName string) (string, error) {
	if envValue := os.Getenv(envName); envValue != "" {
		return envValue, nil
	}
	return p.GetSecret(ctx, name)
}

// Source returns the active secret source
func (p *Provider) Source() SecretSource {
	return p.source
}

func (p *Provider) vaultSecret(ctx context.Context, name string) (string, error) {
	if p.vault == nil {
		return "", fmt.Errorf("vault client not initialized")
	}

	if p.caching {
		if value, ok := p.cachedValue(name); ok {
			return value, nil
		}
	}

	resp, err := p.vault.GetSecret(ctx, name, "", nil)
	if err != nil {
		p.logger.Error("failed to get secret from Key Vault",
			zap.String("secret_name", name),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to get secret '%s': %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret '%s' has no value", name)
	}

	value := *resp.Value
	if p.caching {
		p.mu.Lock()
		p.cache[name] = cacheEntry{value: value, expiresAt: time.Now().Add(p.cacheTTL)}
		p.mu.Unlock()
	}
	return value, nil
}

func (p *Provider) cachedValue(name string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.cache[name]
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(p.cache, name)
		return "", false
	}
	return entry.value, true
}
