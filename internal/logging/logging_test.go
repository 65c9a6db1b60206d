package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-formdef/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

type provider struct {
	logger *recordingLogger
	names  []string
}

func (p *provider) GetLogger(name string) interfaces.Logger {
	p.names = append(p.names, name)
	return p.logger
}

func TestModuleLogger_AttachesModuleField(t *testing.T) {
	rec := &recordingLogger{}
	prov := &provider{logger: rec}

	ModuleLogger(prov, EngineModule)

	if len(prov.names) != 1 || prov.names[0] != EngineModule {
		t.Fatalf("expected provider lookup for %q, got %v", EngineModule, prov.names)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != EngineModule {
		t.Fatalf("expected module field, got %v", rec.fields)
	}
}

func TestModuleLogger_DefaultsToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "")
	if logger == nil {
		t.Fatal("expected no-op logger")
	}
	logger.Error("dropped", "key", "value")
}

func TestEnsure(t *testing.T) {
	if Ensure(nil) == nil {
		t.Fatal("expected Ensure to return a logger for nil input")
	}
	rec := &recordingLogger{}
	if Ensure(rec) != rec {
		t.Fatal("expected Ensure to keep a non-nil logger")
	}
}
