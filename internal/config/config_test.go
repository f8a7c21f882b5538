package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("APP_ENV", "")

	cfg, _ := Load()
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3002"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ObjectStore(t *testing.T) {
	t.Setenv("OBJECT_STORE_ENDPOINT", "https://s3.tebi.io")
	t.Setenv("OBJECT_STORE_ACCESS_KEY", "ak")
	t.Setenv("OBJECT_STORE_SECRET_KEY", "sk")
	t.Setenv("OBJECT_STORE_BUCKET", "portal")
	t.Setenv("APP_ENV", "production")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg, _ := Load()
	sc := cfg.Storage()
	assert.NoError(t, sc.Validate())
	assert.Equal(t, "portal", sc.Bucket)
	assert.Equal(t, "us-east-1", sc.Region)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_MissingObjectStoreFailsValidation(t *testing.T) {
	t.Setenv("OBJECT_STORE_ENDPOINT", "")
	t.Setenv("OBJECT_STORE_ACCESS_KEY", "")
	t.Setenv("OBJECT_STORE_SECRET_KEY", "")
	t.Setenv("OBJECT_STORE_BUCKET", "")

	cfg, _ := Load()
	assert.Error(t, cfg.Storage().Validate())
}
