package logging

import (
	"context"

	"github.com/jsweb-dev/jsweb/pkg/interfaces"
)

const (
	rootModule     = "jsweb"
	routerModule   = "jsweb.router"
	serverModule   = "jsweb.server"
	ormModule      = "jsweb.orm"
	sessionModule  = "jsweb.session"
	adminModule    = "jsweb.admin"
	renderModule   = "jsweb.render"
	scaffoldModule = "jsweb.scaffold"
	cliModule      = "jsweb.cli"
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

// RouterLogger returns the logger namespace reserved for route resolution.
func RouterLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, routerModule)
}

// ServerLogger returns the logger namespace reserved for the HTTP server.
func ServerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, serverModule)
}

// ORMLogger returns the logger namespace reserved for database access.
func ORMLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, ormModule)
}

// SessionLogger returns the logger namespace reserved for session handling.
func SessionLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sessionModule)
}

// AdminLogger returns the logger namespace reserved for the admin API.
func AdminLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, adminModule)
}

// RenderLogger returns the logger namespace reserved for template rendering.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// ScaffoldLogger returns the logger namespace reserved for project scaffolding.
func ScaffoldLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, scaffoldModule)
}

// CLILogger returns the logger namespace reserved for command line entry points.
func CLILogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cliModule)
}

// WithRequestContext enriches the provided logger with common request fields.
// Empty values are ignored.
func WithRequestContext(logger interfaces.Logger, method, path string, status int) interfaces.Logger {
	fields := map[string]any{}
	if method != "" {
		fields["method"] = method
	}
	if path != "" {
		fields["path"] = path
	}
	if status > 0 {
		fields["status"] = status
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
