package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseGenerate Phase = "generate" // candidate generation
	PhaseShrink   Phase = "shrink"   // counterexample minimization
	PhaseDecode   Phase = "decode"   // trace decoding
	PhaseAssert   Phase = "assert"   // assertion evaluation
	PhaseExecute  Phase = "execute"  // executor calls
	PhaseLoad     Phase = "load"     // module and manifest loading
	PhaseParse    Phase = "parse"    // schema, annotation and literal parsing
	PhaseStore    Phase = "store"    // corpus persistence
)

// Kind categorizes the error
type Kind string

const (
	KindFixtureTypeMismatch Kind = "fixture_type_mismatch"
	KindUnsupportedType     Kind = "unsupported_type"
	KindProtocolDecode      Kind = "protocol_decode"
	KindAssertion           Kind = "assertion"
	KindExecution           Kind = "execution_failure"
	KindExitCode            Kind = "exit_code"
	KindOutOfRange          Kind = "out_of_range"
	KindInvalidData         Kind = "invalid_data"
	KindInvalidInput        Kind = "invalid_input"
	KindNotFound            Kind = "not_found"
)

// Error is the structured error type used throughout the engine
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Sentinels for errors.Is checks that only care about the category.
var (
	ErrFixtureTypeMismatch = &Error{Kind: KindFixtureTypeMismatch}
	ErrUnsupportedType     = &Error{Kind: KindUnsupportedType}
	ErrProtocolDecode      = &Error{Kind: KindProtocolDecode}
	ErrExecution           = &Error{Kind: KindExecution}
	ErrExitCode            = &Error{Kind: KindExitCode}
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the parameter or field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the engine's error taxonomy

// FixtureTypeMismatch reports a fixture whose kind differs from the requested one.
func FixtureTypeMismatch(param, want, got string) *Error {
	return &Error{
		Phase:  PhaseGenerate,
		Kind:   KindFixtureTypeMismatch,
		Path:   pathOf(param),
		Detail: fmt.Sprintf("all fixtures must be of type %s, but got %s", want, got),
		Value:  got,
	}
}

// UnsupportedParameterType reports a parameter type the generators cannot produce.
func UnsupportedParameterType(param, typ string) *Error {
	return &Error{
		Phase:  PhaseGenerate,
		Kind:   KindUnsupportedType,
		Path:   pathOf(param),
		Detail: fmt.Sprintf("fuzz tests do not support type %s", typ),
		Value:  typ,
	}
}

// ProtocolDecode reports trace text that does not follow the debug protocol.
func ProtocolDecode(detail, text string) *Error {
	preview := text
	if len(preview) > 96 {
		preview = preview[:96] + "..."
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindProtocolDecode,
		Detail: fmt.Sprintf("%s. Given: %q", detail, preview),
		Value:  text,
	}
}

// ExecutionFailure reports an executor run that did not complete.
func ExecutionFailure(entry, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseExecute,
		Kind:   KindExecution,
		Path:   pathOf(entry),
		Detail: "Execution failed: " + detail,
		Cause:  cause,
	}
}

// ExitCode reports a call that finished with an unexpected exit code.
// The detail is the complete human-readable message.
func ExitCode(entry string, code int32, detail string) *Error {
	return &Error{
		Phase:  PhaseExecute,
		Kind:   KindExitCode,
		Path:   pathOf(entry),
		Detail: detail,
		Value:  code,
	}
}

// OutOfRange reports a value outside of its integer domain.
func OutOfRange(phase Phase, path []string, value any, domain string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Path:   path,
		Detail: fmt.Sprintf("value %v is outside of %s", value, domain),
		Value:  value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a module or manifest loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

func pathOf(name string) []string {
	if name == "" {
		return nil
	}
	return []string{name}
}

// DefaultAssertLabel prefixes assertion messages that carry no custom label.
const DefaultAssertLabel = "AssertError"

// AssertionError is a decoded assertion failure raised by the program under test.
type AssertionError struct {
	Tag     string // trace tag that raised it, e.g. ASSERT_COMPARE_INT
	Label   string // custom message supplied by the program, may be empty
	Message string // description of the mismatch
}

// NewAssertion creates an assertion failure for tag.
func NewAssertion(tag, label, format string, args ...any) *AssertionError {
	return &AssertionError{
		Tag:     tag,
		Label:   label,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AssertionError) Error() string {
	label := e.Label
	if label == "" {
		label = DefaultAssertLabel
	}
	return label + " - " + e.Message
}

// Is reports whether target is an assertion failure, optionally for the same tag.
func (e *AssertionError) Is(target error) bool {
	switch t := target.(type) {
	case *AssertionError:
		return t.Tag == "" || t.Tag == e.Tag
	case *Error:
		return t.Kind == KindAssertion
	}
	return false
}
