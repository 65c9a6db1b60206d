package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdef/components/timezones"
	"github.com/goliatone/go-formdef/internal/logging"
	"github.com/goliatone/go-formdef/internal/logging/gologger"
	"github.com/goliatone/go-formdef/pkg/dom/prompt"
	"github.com/goliatone/go-formdef/pkg/engine"
	"github.com/goliatone/go-formdef/pkg/interfaces"
	"github.com/goliatone/go-formdef/pkg/model"
	"github.com/goliatone/go-formdef/pkg/orchestrator"
)

type rootOptions struct {
	formsDir   string
	optionsDir string
	logLevel   string
	logFormat  string
	strict     bool
	timezones  bool

	provider interfaces.LoggerProvider
	driver   prompt.Driver
}

func newRootCommand() *cobra.Command {
	return buildRootCommand(&rootOptions{})
}

func buildRootCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "formdef-cli",
		Short:         "Render, fill and validate declarative forms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			provider, err := gologger.NewProvider(gologger.Config{Level: opts.logLevel, Format: opts.logFormat})
			if err != nil {
				return err
			}
			opts.provider = provider
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.formsDir, "forms", "forms", "directory holding form definitions (JSON or YAML)")
	flags.StringVar(&opts.optionsDir, "options", "", "directory holding select option lists (JSON or YAML)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "console", "log format (json, console, pretty)")
	flags.BoolVar(&opts.strict, "strict", false, "fail extraction when a field type has no extract handler")
	flags.BoolVar(&opts.timezones, "timezones", false, "register the \"timezone\" select subtype")

	cmd.AddCommand(
		newViewCommand(opts),
		newEditCommand(opts),
		newFillCommand(opts),
		newImportCommand(opts),
		newLintCommand(opts),
	)
	return cmd
}

func (o *rootOptions) logger() interfaces.Logger {
	return logging.ModuleLogger(o.provider, logging.RootModule)
}

func (o *rootOptions) kit(extra ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	options := []orchestrator.Option{orchestrator.WithLoggerProvider(o.provider)}
	if o.formsDir != "" {
		options = append(options, orchestrator.WithFormsFS(os.DirFS(o.formsDir)))
	}
	if o.optionsDir != "" {
		options = append(options, orchestrator.WithOptionsFS(os.DirFS(o.optionsDir)))
	}
	if o.strict {
		options = append(options, orchestrator.WithEngineOptions(engine.WithMissingExtractor(engine.FailMissing)))
	}
	if o.timezones {
		options = append(options, orchestrator.WithSubtypeProvider(timezones.New()))
	}
	options = append(options, extra...)

	kit := orchestrator.New(options...)
	if err := kit.Err(); err != nil {
		return nil, err
	}
	return kit, nil
}

func (o *rootOptions) form(kit *orchestrator.Orchestrator, formType string) (model.Form, error) {
	form, ok := kit.Form(formType)
	if !ok {
		return model.Form{}, fmt.Errorf("form %q not defined (known: %s)", formType, strings.Join(kit.Forms(), ", "))
	}
	return form, nil
}

// readObject decodes a JSON or YAML object file. An empty path yields an
// empty object.
func readObject(path string) (model.Object, error) {
	if strings.TrimSpace(path) == "" {
		return model.Object{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	obj := model.Object{}
	if err := yaml.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("parse object %s: %w", path, err)
	}
	return obj, nil
}
