package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ROSTER_SOURCE", "")
	t.Setenv("SESSION_STORE", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, RosterSourceHTTP, cfg.Roster.Source)
	require.Equal(t, DefaultRosterURL, cfg.Roster.URL)
	require.Equal(t, "Intern", cfg.Roster.InternSentinel)
	require.Equal(t, SessionStoreMemory, cfg.Session.Store)
	require.Equal(t, 5.0, cfg.Export.MarginMM)
	require.Equal(t, "A4", cfg.Export.PageSize)
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ROSTER_SOURCE", "FILE")
	t.Setenv("ROSTER_FILE", "/srv/data.csv")
	t.Setenv("ROSTER_STRICT", "true")
	t.Setenv("ROSTER_FETCH_TIMEOUT_SECONDS", "3")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("EXPORT_MARGIN_MM", "7.5")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, RosterSourceFile, cfg.Roster.Source)
	require.Equal(t, "/srv/data.csv", cfg.Roster.File)
	require.True(t, cfg.Roster.Strict)
	require.Equal(t, 3*time.Second, cfg.Roster.FetchTimeout())
	require.Equal(t, SessionStoreRedis, cfg.Session.Store)
	require.Equal(t, 15*time.Minute, cfg.Session.TTL())
	require.Equal(t, 7.5, cfg.Export.MarginMM)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"unknown source":        {"ROSTER_SOURCE", "ftp"},
		"unknown session store": {"SESSION_STORE", "disk"},
		"bad margin":            {"EXPORT_MARGIN_MM", "wide"},
		"bad redis db":          {"REDIS_DB", "zero"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestPostgresSourceRequiresDSN(t *testing.T) {
	t.Setenv("ROSTER_SOURCE", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load()
	require.ErrorContains(t, err, "POSTGRES_DSN")
}
