package combinator

import (
	"log/slog"

	"go.binlayout.dev/binlayout/field"
	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

// watchField wraps a child field for tracing: it logs the stream offset
// before parsing and the result (or error) after, at slog.LevelDebug,
// without altering the child's contract in any other way. Errors are
// logged then re-raised unchanged.
type watchField struct {
	child  field.Field
	logger *slog.Logger
}

// Watch wraps child so every Parse call emits a debug-level trace event via
// logger (or slog.Default() if logger is nil) recording the field name,
// stream offset, and outcome. Errors observed from child are logged and
// re-raised unchanged; Watch never alters parse results.
func Watch(child field.Field, logger *slog.Logger) field.Field {
	if logger == nil {
		logger = slog.Default()
	}

	return &watchField{child: child, logger: logger}
}

// Dump is an alias for Watch, matching the two names the debug wrapper is
// known by in the reference implementation this library is modeled on.
func Dump(child field.Field, logger *slog.Logger) field.Field {
	return Watch(child, logger)
}

func (f *watchField) Name() string        { return f.child.Name() }
func (f *watchField) IsEmbedded() bool    { return f.child.IsEmbedded() }
func (f *watchField) IsNested() bool      { return f.child.IsNested() }
func (f *watchField) Unwrap() field.Field { return f.child }

func (f *watchField) Sizeof(ctx scope.Context) (int64, error) { return f.child.Sizeof(ctx) }

func (f *watchField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	offset, _ := s.Tell()

	f.logger.Debug("parse begin", "field", f.child.Name(), "offset", offset)

	v, err := f.child.Parse(s, parent)
	if err != nil {
		f.logger.Debug("parse error", "field", f.child.Name(), "offset", offset, "error", err)

		return nil, err
	}

	end, _ := s.Tell()
	f.logger.Debug("parse end", "field", f.child.Name(), "offset", offset, "consumed", end-offset, "value", v)

	return v, nil
}
