package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"
)

func TestNewProvider_RejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewProvider_ConsoleLogger(t *testing.T) {
	p, err := NewProvider(Config{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	logger := p.GetLogger("formdef.engine")
	if logger == nil {
		t.Fatal("expected logger")
	}
	logger.Debug("provider.ready")
}

func TestNormalizeLevel(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"TRACE":   glog.Trace,
		"warning": glog.Warn,
		" error ": glog.Error,
		"bogus":   "",
	}
	for input, want := range cases {
		if got := normalizeLevel(input); got != want {
			t.Fatalf("normalizeLevel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNilProviderFallsBackToNoOp(t *testing.T) {
	var p *Provider
	logger := p.GetLogger("x")
	logger.WithContext(context.Background()).Info("dropped")
}
