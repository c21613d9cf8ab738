// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileorname

import (
	"io"
	"strconv"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultMode is used for the first parameter if no mode has been configured.
const DefaultMode = "r"

// Path marks a value as path. Plain strings are taken as such, too.
type Path string

// Signature lists the parameters an operation declares, in order.
type Signature []string

// Bind assigns 'values' to the parameters in order.
//
// Fewer values than parameters are fine; they will be missing from the result.
func (sig Signature) Bind(values ...any) (Args, error) {
	if len(values) > len(sig) {
		return nil, &ConfigurationError{
			Reason: "got " + strconv.Itoa(len(values)) + " values for " + strconv.Itoa(len(sig)) + " parameters",
		}
	}
	args := make(Args, len(values))
	for i := range values {
		args[sig[i]] = values[i]
	}
	return args, nil
}

// MustBind is like Bind but panics on errors.
func (sig Signature) MustBind(values ...any) Args {
	args, err := sig.Bind(values...)
	if err != nil {
		panic(err)
	}
	return args
}

func (sig Signature) has(name string) bool {
	for i := range sig {
		if sig[i] == name {
			return true
		}
	}
	return false
}

// Args carries the values of one invocation by parameter name.
type Args map[string]any

// Reader returns the value for 'name' if it can be read from, else nil.
func (a Args) Reader(name string) io.Reader {
	r, _ := a[name].(io.Reader)
	return r
}

// Writer returns the value for 'name' if it can be written to, else nil.
func (a Args) Writer(name string) io.Writer {
	w, _ := a[name].(io.Writer)
	return w
}

// String returns the value for 'name' if it is a string (or Path), else "".
func (a Args) String(name string) string {
	switch v := a[name].(type) {
	case string:
		return v
	case Path:
		return string(v)
	}
	return ""
}

type param struct {
	name     string
	mode     Mode
	sizeHint int64 // staged modes only
}

type options struct {
	modes     [][2]string // {name, token} in the order given
	sizeHints map[string]int64
	defaults  Args
	fs        afero.Fs
	tempDir   string
	logger    *zap.Logger
}

// Option configures NewSpec.
type Option func(*options)

// WithMode opens parameter 'name' using mode 'token' if it is given a path.
//
// Files are opened in the order their modes have been given,
// and released in the reverse order.
func WithMode(name, token string) Option {
	return func(o *options) {
		o.modes = append(o.modes, [2]string{name, token})
	}
}

// WithSizeHint has space reserved for 'n' bytes before anything is written
// to the file staged for parameter 'name'. Ignored for modes that are not staged.
func WithSizeHint(name string, n int64) Option {
	return func(o *options) {
		if o.sizeHints == nil {
			o.sizeHints = make(map[string]int64)
		}
		o.sizeHints[name] = n
	}
}

// WithDefault is used for parameter 'name' whenever an invocation does not supply it.
// A path given as default is opened like any other.
func WithDefault(name string, value any) Option {
	return func(o *options) {
		if o.defaults == nil {
			o.defaults = make(Args)
		}
		o.defaults[name] = value
	}
}

// WithFs sets the filesystem paths are opened on.
// Defaults to the operating system's.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithTempDir is where staged files are created. Defaults to the target's directory.
func WithTempDir(dir string) Option {
	return func(o *options) {
		o.tempDir = dir
	}
}

// WithLogger sets the sink for tracing opens and closes.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Spec is the result of validating a mapping from parameters to modes.
//
// Build it once per operation. It does not change afterwards
// and can be used by concurrent invocations.
type Spec struct {
	sig      Signature
	params   []param
	defaults Args
	fs       afero.Fs
	tempDir  string
	log      *zap.Logger
}

// NewSpec validates the modes given by WithMode against 'sig'.
//
// Without any WithMode the first parameter will be opened using DefaultMode.
// Returns a *ConfigurationError for names 'sig' does not declare and for invalid modes.
func NewSpec(sig Signature, opts ...Option) (*Spec, error) {
	o := options{
		fs:     afero.NewOsFs(),
		logger: zap.NewNop(),
	}
	for _, fn := range opts {
		fn(&o)
	}

	if len(o.modes) == 0 {
		if len(sig) == 0 {
			return nil, &ConfigurationError{Mode: DefaultMode, Reason: "no parameters have been declared"}
		}
		o.modes = [][2]string{{sig[0], DefaultMode}}
	}

	s := &Spec{
		sig:      sig,
		params:   make([]param, 0, len(o.modes)),
		defaults: o.defaults,
		fs:       o.fs,
		tempDir:  o.tempDir,
		log:      o.logger,
	}
	for name := range o.defaults {
		if !sig.has(name) {
			return nil, &ConfigurationError{Param: name, Reason: "default for an undeclared parameter"}
		}
	}
	seen := make(map[string]bool, len(o.modes))
	for _, nt := range o.modes {
		name, token := nt[0], nt[1]
		if !sig.has(name) {
			return nil, &ConfigurationError{Param: name, Mode: token, Reason: "not a declared parameter"}
		}
		if seen[name] {
			return nil, &ConfigurationError{Param: name, Mode: token, Reason: "mode given more than once"}
		}
		seen[name] = true

		m, err := ParseMode(token)
		if err != nil {
			err.(*ConfigurationError).Param = name
			return nil, err
		}
		s.params = append(s.params, param{name: name, mode: m, sizeHint: o.sizeHints[name]})
	}
	for name := range o.sizeHints {
		if !seen[name] {
			return nil, &ConfigurationError{Param: name, Reason: "size hint for a parameter without mode"}
		}
	}
	return s, nil
}

// MustNewSpec is like NewSpec but panics on errors.
func MustNewSpec(sig Signature, opts ...Option) *Spec {
	s, err := NewSpec(sig, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Signature returns the parameters the Spec has been built for.
func (s *Spec) Signature() Signature { return s.sig }

// Mode returns the mode configured for 'name'.
func (s *Spec) Mode(name string) (Mode, bool) {
	for _, p := range s.params {
		if p.name == name {
			return p.mode, true
		}
	}
	return Mode{}, false
}
