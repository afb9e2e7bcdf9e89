package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "zero config is valid",
			config: Config{},
		},
		{
			name:   "explicit version is valid",
			config: Config{DataDir: "/tmp/data", SchemaVersion: 3},
		},
		{
			name:    "negative version",
			config:  Config{SchemaVersion: -1},
			wantErr: ErrSchemaVersionInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEffectiveSchemaVersion(t *testing.T) {
	if got := (Config{}).EffectiveSchemaVersion(); got != SchemaVersion {
		t.Fatalf("default version = %d, want %d", got, SchemaVersion)
	}
	if got := (Config{SchemaVersion: 9}).EffectiveSchemaVersion(); got != 9 {
		t.Fatalf("explicit version = %d, want 9", got)
	}
}
