package confs

import (
	"testing"
	"time"

	"financehub/entities"

	"github.com/stretchr/testify/assert"
)

func TestServerDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_ADDR", "TOKEN_TTL", "STORAGE", "REACTION_POLICY", "ANON_KEY"} {
		t.Setenv(k, "")
	}

	cfg := Server()
	assert.Equal(t, defaultServerAddr, cfg.Addr)
	assert.Equal(t, defaultTokenTTL, cfg.TokenTTL)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, entities.ReactionOnce, cfg.ReactionPolicy)
	assert.Empty(t, cfg.AnonKey)
}

func TestServerFromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("STORAGE", StorageMemory)
	t.Setenv("REACTION_POLICY", "unlimited")

	cfg := Server()
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, entities.ReactionUnlimited, cfg.ReactionPolicy)
}

func TestBadDurationFallsBack(t *testing.T) {
	t.Setenv("TOKEN_TTL", "soon")
	assert.Equal(t, defaultTokenTTL, Server().TokenTTL)
}

func TestClientMayBeEmpty(t *testing.T) {
	t.Setenv("FINANCEHUB_URL", "")
	t.Setenv("FINANCEHUB_ANON_KEY", "")

	cfg := Client()
	assert.Empty(t, cfg.URL)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, defaultLogFile, cfg.LogFile)
}
