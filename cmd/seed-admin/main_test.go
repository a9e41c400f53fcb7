package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propcodes/platform/internal/auth"
)

func TestBuildAdmin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		role     string
		wantErr  string
	}{
		{"valid", " admin@example.com ", "long-enough", auth.RoleAdmin, ""},
		{"bad email", "admin", "long-enough", auth.RoleAdmin, "email"},
		{"short password", "admin@example.com", "short", auth.RoleAdmin, "at least 8"},
		{"unknown role", "admin@example.com", "long-enough", "root", "unknown role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := buildAdmin(tt.email, tt.password, tt.role)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "admin@example.com", u.Email)
			assert.True(t, auth.CheckPassword(u.PasswordHash, tt.password))
			assert.NotContains(t, u.PasswordHash, tt.password)
		})
	}
}

func TestRootCmd_RequiresEmail(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--password", "long-enough"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"email" not set`)
}

func TestRootCmd_ValidatesBeforeConnecting(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--email", "admin@example.com", "--password", "short"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8")
}
