package runtime

import (
	"context"
	"log/slog"

	"github.com/risor-io/risor/object"
)

// makeClassifySrcFn creates the "classify_src" host function.
//
// classify_src(source, language) → [{name, kind, superclass, is_component, rule, start_line, end_line}]
func makeClassifySrcFn(classify ClassifyFunc) *object.Builtin {
	return object.NewBuiltin("classify_src", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("classify_src", 2, len(args))
		}

		src, err := toString(args[0])
		if err != nil {
			return object.Errorf("classify_src: source: %v", err)
		}
		lang, err := toString(args[1])
		if err != nil {
			return object.Errorf("classify_src: language: %v", err)
		}

		results, err := classify(ctx, src, lang)
		if err != nil {
			return object.Errorf("classify_src: %v", err)
		}

		list := make([]object.Object, 0, len(results))
		for _, c := range results {
			list = append(list, object.NewMap(map[string]object.Object{
				"name":         object.NewString(c.Name),
				"kind":         object.NewString(c.Kind),
				"superclass":   object.NewString(c.Superclass),
				"is_component": object.NewBool(c.IsComponent),
				"rule":         object.NewString(c.Rule),
				"start_line":   object.NewInt(int64(c.StartLine)),
				"end_line":     object.NewInt(int64(c.EndLine)),
			}))
		}
		return object.NewList(list)
	})
}

// makeEmitFn creates "emit", which hands one report row back to Go.
//
// emit(row) → nil
func makeEmitFn(collect func(map[string]any)) *object.Builtin {
	return object.NewBuiltin("emit", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("emit", 1, len(args))
		}
		m, ok := args[0].(*object.Map)
		if !ok {
			return object.Errorf("emit: expected map, got %s", args[0].Type())
		}
		row, ok := m.Interface().(map[string]any)
		if !ok {
			return object.Errorf("emit: unsupported map value")
		}
		collect(row)
		return object.Nil
	})
}

// logObject provides log.Info/Warn/Error methods for Risor scripts.
type logObject struct {
	logger *slog.Logger
}

func (l *logObject) Info(msg string) {
	l.logger.Info(msg, "source", "script")
}

func (l *logObject) Warn(msg string) {
	l.logger.Warn(msg, "source", "script")
}

func (l *logObject) Error(msg string) {
	l.logger.Error(msg, "source", "script")
}
