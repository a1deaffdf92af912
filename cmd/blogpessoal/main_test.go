package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"blogpessoal/internal/config"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, sub := range []string{"serve", "migrate"} {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFlag string
	}{
		{
			name:     "separate value",
			args:     []string{"--config", "/path/to/config.yaml", "--help"},
			wantFlag: "/path/to/config.yaml",
		},
		{
			name:     "with equals",
			args:     []string{"--config=/etc/blogpessoal.yaml", "--help"},
			wantFlag: "/etc/blogpessoal.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile = ""

			cmd := NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetArgs(tt.args)

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.wantFlag, configFile)
		})
	}
}

func TestMigrateCommand_RejectsMemoryDriver(t *testing.T) {
	configFile = ""
	t.Setenv("BLOG_DATABASE_DRIVER", "memory")

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"migrate", "up"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory driver")
}

func TestMigrateCommand_RequiresURL(t *testing.T) {
	configFile = ""
	t.Setenv("BLOG_DATABASE_DRIVER", "postgres")
	t.Setenv("BLOG_DATABASE_URL", "")

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"migrate", "version"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url")
}

func TestServeCommand_InvalidConfig(t *testing.T) {
	configFile = ""
	t.Setenv("BLOG_JWT_SECRET", "short")

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"serve", "--db-driver", "memory"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	cfg.Database.Driver = "memory"
	cfg.Redis.Addr = ""
	cfg.OIDC.Enabled = false
	cfg.JWT.Secret = strings.Repeat("s", config.MinSecretLength)
	cfg.Bootstrap.Email = "root@root.com"
	cfg.Bootstrap.Password = "rootroot"
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestBuildDeps_MemoryDriver(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d, err := buildDeps(ctx, memoryConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, d.Close()) }()

	ts := httptest.NewServer(d.handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := strings.NewReader(`{"usuario":"root@root.com","senha":"rootroot"}`)
	resp, err = http.Post(ts.URL+"/usuarios/logar", "application/json", body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	assert.True(t, strings.HasPrefix(login.Token, "Bearer "))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/postagens", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", login.Token)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	resp3, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	_ = resp3.Body.Close()
	assert.Equal(t, http.StatusOK, resp3.StatusCode)
}

func TestBuildDeps_InvalidBootstrapUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := memoryConfig(t)
	cfg.Bootstrap.Password = "short"

	_, err := buildDeps(ctx, cfg, zap.NewNop())
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "BOOTSTRAP_FAILED", oopsErr.Code())
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, zap.NewNop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
