package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBaseURL(t *testing.T) {
	require.Equal(t, DefaultAPIURL, NormalizeBaseURL(""))
	require.Equal(t, DefaultAPIURL, NormalizeBaseURL("   "))
	require.Equal(t, "https://render.example.com", NormalizeBaseURL("https://render.example.com/"))
	require.Equal(t, "https://render.example.com", NormalizeBaseURL("https://render.example.com//"))
}

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	require.Equal(t, EnvDevelopment, cfg.Env)
	require.Equal(t, 8000, cfg.Port)
	require.Equal(t, "research-guide-v1", cfg.Guide.StorageKey)
	require.Equal(t, DraftBackendFile, cfg.Guide.DraftBackend)
	require.Equal(t, 3*time.Second, cfg.Guide.RestoredDuration)
	require.Equal(t, DefaultAPIURL, cfg.Guide.APIURL)
	require.Equal(t, 20000, cfg.Render.MaxSectionLength)
	require.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("GUIDE_API_URL", "http://render:9000/")
	v.Set("GUIDE_DRAFT_BACKEND", " Redis ")
	v.Set("GUIDE_RESTORED_DURATION", "not-a-duration")
	v.Set("RENDER_MAX_SECTION_LENGTH", 0)

	cfg := fromViper(v)
	require.Equal(t, "http://render:9000", cfg.Guide.APIURL)
	require.Equal(t, DraftBackendRedis, cfg.Guide.DraftBackend)
	require.Equal(t, 3*time.Second, cfg.Guide.RestoredDuration)
	require.Equal(t, 20000, cfg.Render.MaxSectionLength)
}
