package secrets

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubVault struct {
	calls  int
	values map[string]string
}

func (s *stubVault) GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
	s.calls++
	value, ok := s.values[name]
	if !ok {
		return azsecrets.GetSecretResponse{}, fmt.Errorf("secret not found: %s", name)
	}
	return azsecrets.GetSecretResponse{Secret: azsecrets.Secret{Value: &value}}, nil
}

func TestEnvironmentSource(t *testing.T) {
	p, err := NewProvider(&ProviderConfig{Source: SourceEnvironment}, zap.NewNop())
	require.NoError(t, err)

	t.Setenv("CHARTER_TEST_SECRET", "s3cret")
	value, err := p.GetSecret(context.Background(), "CHARTER_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", value)

	_, err = p.GetSecret(context.Background(), "CHARTER_TEST_MISSING")
	assert.Error(t, err)
}

func TestAutoSourceSelection(t *testing.T) {
	dev, err := NewProvider(&ProviderConfig{Source: SourceAuto, Environment: "development"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, SourceEnvironment, dev.Source())
}

func TestVaultCaching(t *testing.T) {
	vault := &stubVault{values: map[string]string{"JWT-SECRET": "signing-key"}}
	p := &Provider{
		source:   SourceVault,
		vault:    vault,
		logger:   zap.NewNop(),
		cacheTTL: time.Minute,
		caching:  true,
		cache:    make(map[string]cacheEntry),
	}

	for i := 0; i < 3; i++ {
		value, err := p.GetSecret(context.Background(), "JWT-SECRET")
		require.NoError(t, err)
		assert.Equal(t, "signing-key", value)
	}
	assert.Equal(t, 1, vault.calls)

	_, err := p.GetSecret(context.Background(), "MISSING")
	assert.Error(t, err)
}

func TestGetSecretOrEnvOverride(t *testing.T) {
	vault := &stubVault{values: map[string]string{"MAPS-API-KEY": "from-vault"}}
	p := &Provider{
		source: SourceVault,
		vault:  vault,
		logger: zap.NewNop(),
		cache:  make(map[string]cacheEntry),
	}

	t.Setenv("MAPS_API_KEY", "from-env")
	value, err := p.GetSecretOrEnv(context.Background(), "MAPS-API-KEY", "MAPS_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "from-env", value)
	assert.Equal(t, 0, vault.calls)
}
