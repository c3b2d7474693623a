package main

import (
	"testing"

	"github.com/alnah/go-mdexport/internal/config"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    serveFlags
		wantErr bool
	}{
		{
			name: "no flags",
			args: nil,
			want: serveFlags{},
		},
		{
			name: "all flags",
			args: []string{"--config", "c.yaml", "--addr", ":9000", "--root", "/docs", "--pdf-engine", "builtin", "-v"},
			want: serveFlags{config: "c.yaml", addr: ":9000", root: "/docs", engine: "builtin", verbose: true},
		},
		{
			name: "short config flag",
			args: []string{"-c", "c.yaml"},
			want: serveFlags{config: "c.yaml"},
		},
		{
			name: "version flag",
			args: []string{"--version"},
			want: serveFlags{version: true},
		},
		{
			name:    "unknown flag",
			args:    []string{"--bogus"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseFlags(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlags(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if *got != tt.want {
				t.Errorf("parseFlags(%v) = %+v, want %+v", tt.args, *got, tt.want)
			}
		})
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	applyFlagOverrides(cfg, &serveFlags{addr: ":9999", engine: "chrome"})

	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q, want :9999", cfg.Server.Addr)
	}
	if cfg.PDF.Engine != "chrome" {
		t.Errorf("PDF.Engine = %q, want chrome", cfg.PDF.Engine)
	}
	if cfg.Server.Root != config.DefaultRoot {
		t.Errorf("Server.Root = %q, want default untouched", cfg.Server.Root)
	}
}
