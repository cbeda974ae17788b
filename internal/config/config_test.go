package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "empty config gets full defaults",
			yaml: "{}\n",
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "data/products.csv", cfg.Snapshots.ProductsCurrent)
				assert.Equal(t, "data/products_yesterday.csv", cfg.Snapshots.ProductsPrevious)
				assert.Equal(t, "data/reviews.csv", cfg.Snapshots.ReviewsCurrent)
				assert.Equal(t, "data/reviews_yesterday.csv", cfg.Snapshots.ReviewsPrevious)
				assert.InDelta(t, 10.0, cfg.Detectors.PriceDropThresholdPct, 0.0001)
				assert.Equal(t, 2, cfg.Detectors.NegativeReviewMinCount)
				assert.Equal(t, 2, cfg.Detectors.NegativeRatingCeiling)
				assert.Equal(t, "csv", cfg.Store.Backend)
				assert.Equal(t, "data/notifications.csv", cfg.Store.CSV.NotificationsFile)
				assert.Equal(t, 24*time.Hour, cfg.Schedule.DetectionInterval)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "postgres backend with connection settings",
			yaml: `
store:
  backend: postgres
  database:
    host: localhost
    name: alerts
    user: alerts
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "postgres", cfg.Store.Backend)
				assert.Equal(t, 5432, cfg.Store.Database.Port)
				assert.Equal(t, "disable", cfg.Store.Database.SSLMode)
				assert.Contains(t, cfg.Store.Database.DSN(), "dbname=alerts")
			},
		},
		{
			name: "postgres backend missing host",
			yaml: `
store:
  backend: postgres
  database:
    name: alerts
    user: alerts
`,
			wantErr: "store.database.host is required",
		},
		{
			name: "unknown backend rejected",
			yaml: `
store:
  backend: sqlite
`,
			wantErr: "store.backend must be one of",
		},
		{
			name: "env var substitution in email password",
			yaml: `
notifications:
  email:
    enabled: true
    host: smtp.example.com
    username: alerts@example.com
    password: "${TEST_SMTP_PASSWORD}"
    from: alerts@example.com
    to: [ops@example.com]
`,
			envVars: map[string]string{
				"TEST_SMTP_PASSWORD": "hunter2",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "hunter2", cfg.Notifications.Email.Password)
				assert.Equal(t, 465, cfg.Notifications.Email.Port)
			},
		},
		{
			name: "email enabled without recipients",
			yaml: `
notifications:
  email:
    enabled: true
    host: smtp.example.com
    from: alerts@example.com
`,
			wantErr: "notifications.email.to must list at least one recipient",
		},
		{
			name: "discord enabled without webhook",
			yaml: `
notifications:
  discord:
    enabled: true
`,
			wantErr: "notifications.discord.webhook_url is required",
		},
		{
			name: "negative rating ceiling out of range",
			yaml: `
detectors:
  negative_rating_ceiling: 6
`,
			wantErr: "negative_rating_ceiling must be between 1 and 5",
		},
		{
			name: "threshold override",
			yaml: `
detectors:
  price_drop_threshold_pct: 5.5
  negative_review_min_count: 1
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.InDelta(t, 5.5, cfg.Detectors.PriceDropThresholdPct, 0.0001)
				assert.Equal(t, 1, cfg.Detectors.NegativeReviewMinCount)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config YAML")
}
