package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-docmigrate/pkg/interfaces"
)

const (
	rootModule     = "docmigrate"
	articlesModule = "docmigrate.articles"
	rewriteModule  = "docmigrate.rewrite"
	backfillModule = "docmigrate.backfill"
	navModule      = "docmigrate.nav"
	repairModule   = "docmigrate.repair"
)

const (
	fieldArticleUID = "article_uid"
	fieldObjectKey  = "object_key"
	fieldOutputPath = "output_path"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ArticlesLogger returns the logger namespace reserved for article loading.
func ArticlesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, articlesModule)
}

// RewriteLogger returns the logger namespace reserved for reference rewriting.
func RewriteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rewriteModule)
}

// BackfillLogger returns the logger namespace reserved for media reconciliation.
func BackfillLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, backfillModule)
}

// NavLogger returns the logger namespace reserved for navigation generation.
func NavLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, navModule)
}

// RepairLogger returns the logger namespace reserved for corpus repair tools.
func RepairLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, repairModule)
}

// WithArticleContext enriches the provided logger with common article fields
// such as uid, storage key, and output path. Empty values are ignored.
func WithArticleContext(logger interfaces.Logger, uid, key, outputPath string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(uid); trimmed != "" {
		fields[fieldArticleUID] = trimmed
	}
	if trimmed := strings.TrimSpace(key); trimmed != "" {
		fields[fieldObjectKey] = trimmed
	}
	if trimmed := strings.TrimSpace(outputPath); trimmed != "" {
		fields[fieldOutputPath] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
