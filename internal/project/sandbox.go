package project

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/maxstack-dev/maxstack/internal/compiler/errors"
)

// jsxRuntime stands in for react/jsx-runtime. Elements evaluate to plain
// descriptor objects; nothing is rendered.
const jsxRuntime = `(function () {
	function jsx(type, props, key) {
		return {
			$$typeof: 'maxstack.element',
			type: typeof type === 'function' ? type.name : type,
			props: props,
			key: key === undefined ? null : key,
		};
	}
	return {
		jsx: jsx,
		jsxs: jsx,
		jsxDEV: jsx,
		Fragment: 'Fragment',
		createElement: function (type, props) { return jsx(type, props); },
	};
})()`

// sandboxModules are the only modules require resolves
var sandboxModules = map[string]bool{
	"react":                 true,
	"react/jsx-runtime":     true,
	"react/jsx-dev-runtime": true,
}

// sandbox evaluates a CommonJS module in an isolated goja runtime. The
// runtime only exposes module, exports, require and console.
type sandbox struct {
	vm     *goja.Runtime
	module *goja.Object
	file   string
	logger *zap.Logger
}

func newSandbox(file string, logger *zap.Logger) (*sandbox, error) {
	vm := goja.New()
	s := &sandbox{vm: vm, file: file, logger: logger}

	runtime, err := vm.RunString(jsxRuntime)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jsx runtime: %w", err)
	}

	s.module = vm.NewObject()
	exports := vm.NewObject()
	if err := s.module.Set("exports", exports); err != nil {
		return nil, err
	}

	console := vm.NewObject()
	for _, level := range []string{"log", "info", "warn", "error", "debug"} {
		if err := console.Set(level, s.consoleFunc(level)); err != nil {
			return nil, err
		}
	}

	globals := map[string]any{
		"module":  s.module,
		"exports": exports,
		"console": console,
		"require": func(call goja.FunctionCall) goja.Value {
			name := call.Argument(0).String()
			if sandboxModules[name] {
				return runtime
			}
			panic(vm.NewTypeError("Cannot require %q: only react/jsx-runtime is available while evaluating the configuration", name))
		},
	}
	for name, value := range globals {
		if err := vm.Set(name, value); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *sandbox) consoleFunc(level string) func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		args := make([]any, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			args = append(args, arg.String())
		}
		s.logger.Debug("config console output",
			zap.String("file", s.file),
			zap.String("level", level),
			zap.String("message", fmt.Sprint(args...)),
		)
		return goja.Undefined()
	}
}

// run evaluates code and returns the exported Go value of its default
// export, interrupting evaluation when ctx is done.
func (s *sandbox) run(ctx context.Context, code string) (any, error) {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.vm.Interrupt(ctx.Err())
		case <-stop:
		}
	}()

	if _, err := s.vm.RunScript(s.file, code); err != nil {
		return nil, s.evalError("module threw during evaluation", err)
	}

	value, err := s.defaultExport()
	if err != nil {
		return nil, err
	}

	if fn, ok := goja.AssertFunction(value); ok {
		value, err = fn(goja.Undefined())
		if err != nil {
			return nil, s.evalError("default export threw when called", err)
		}
	}

	if promise, ok := value.Export().(*goja.Promise); ok {
		switch promise.State() {
		case goja.PromiseStateFulfilled:
			value = promise.Result()
		case goja.PromiseStateRejected:
			return nil, &errors.ConfigEvalError{
				File:    s.file,
				Message: "default export promise rejected: " + promise.Result().String(),
			}
		default:
			return nil, &errors.ConfigEvalError{
				File:    s.file,
				Message: "default export promise never settled",
			}
		}
	}

	if goja.IsUndefined(value) {
		return nil, &errors.ConfigEvalError{File: s.file, Message: "default export is undefined"}
	}
	return value.Export(), nil
}

// defaultExport resolves module.exports.default. A module without a default
// key that assigned a plain object to module.exports exports that object.
func (s *sandbox) defaultExport() (goja.Value, error) {
	exported := s.module.Get("exports")
	if exported == nil || goja.IsUndefined(exported) || goja.IsNull(exported) {
		return nil, &errors.ConfigEvalError{File: s.file, Message: "module has no exports"}
	}

	obj := exported.ToObject(s.vm)
	for _, key := range obj.Keys() {
		if key == "default" {
			return obj.Get("default"), nil
		}
	}

	if esModule := obj.Get("__esModule"); esModule == nil || !esModule.ToBoolean() {
		if _, isFunc := goja.AssertFunction(exported); !isFunc {
			return exported, nil
		}
	}
	return nil, &errors.ConfigEvalError{File: s.file, Message: "module has no default export"}
}

func (s *sandbox) evalError(message string, err error) error {
	var interrupted *goja.InterruptedError
	if stderrors.As(err, &interrupted) {
		cause, ok := interrupted.Value().(error)
		if !ok {
			cause = fmt.Errorf("%v", interrupted.Value())
		}
		return &errors.ConfigEvalError{File: s.file, Message: "evaluation interrupted", Err: cause}
	}

	var exception *goja.Exception
	if stderrors.As(err, &exception) {
		return &errors.ConfigEvalError{File: s.file, Message: message + ": " + exception.Value().String()}
	}
	return &errors.ConfigEvalError{File: s.file, Message: message, Err: err}
}
