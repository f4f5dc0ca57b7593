// Package form manages a single entity draft for the add/edit and
// signup flows: field updates over explicit dotted paths, field-level
// and whole-form validation, and the submit state machine. Validation
// errors stay inside the form; only store failures escape Submit.
package form

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// State of the draft lifecycle.
type State string

const (
	StateEmpty      State = "empty"
	StateLoaded     State = "loaded"
	StateDirty      State = "dirty"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
	StateFailed     State = "failed"
)

var ErrUnknownField = errors.New("unknown form field")

// ValidationError aggregates per-field messages. It never reaches the
// entity store; callers surface it inline next to the offending fields.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Fields))
	for p := range e.Fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return fmt.Sprintf("validation failed for: %s", strings.Join(paths, ", "))
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Password rules, each contributing a distinct message.
var (
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSpecial = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

const passwordMinLength = 8

// Form holds one entity draft keyed by dotted field path. Paths are
// fixed per form kind; setting an unlisted path is rejected rather than
// silently merged.
type Form struct {
	state    State
	editing  bool
	fields   map[string]string
	errors   map[string][]string
	paths    map[string]struct{}
	required map[string]string // path -> message
	email    string            // path validated as an email address, "" if none
	password string            // path validated against the password rules
	confirm  string            // path that must equal the password field
}

func newForm(paths []string) *Form {
	f := &Form{
		state:    StateEmpty,
		fields:   make(map[string]string, len(paths)),
		errors:   make(map[string][]string),
		paths:    make(map[string]struct{}, len(paths)),
		required: make(map[string]string),
	}
	for _, p := range paths {
		f.paths[p] = struct{}{}
		f.fields[p] = ""
	}
	return f
}

// NewRecordForm builds the draft for the add/edit record screen.
func NewRecordForm() *Form {
	f := newForm([]string{"name", "category", "status", "value", "description"})
	f.required["name"] = "Name is required"
	return f
}

// NewUserForm builds the draft for the add/edit user screen, including
// the nested company and address groups.
func NewUserForm() *Form {
	f := newForm([]string{
		"name", "username", "email", "phone", "website",
		"company.name", "company.catchPhrase", "company.bs",
		"address.street", "address.suite", "address.city", "address.zipcode",
		"address.geo.lat", "address.geo.lng",
	})
	f.required["name"] = "Name is required"
	f.required["username"] = "Username is required"
	f.required["email"] = "Email is required"
	f.required["company.name"] = "Company name is required"
	f.email = "email"
	return f
}

// NewSignupForm builds the signup draft with the password rules active.
func NewSignupForm() *Form {
	f := newForm([]string{"email", "password", "confirmPassword"})
	f.required["email"] = "Email is required"
	f.required["password"] = "Password is required"
	f.required["confirmPassword"] = "Please confirm your password"
	f.email = "email"
	f.password = "password"
	f.confirm = "confirmPassword"
	return f
}

func (f *Form) State() State { return f.state }

// Field returns the current draft value for a path.
func (f *Form) Field(path string) string { return f.fields[path] }

// Fields returns a copy of the draft.
func (f *Form) Fields() map[string]string {
	out := make(map[string]string, len(f.fields))
	for k, v := range f.fields {
		out[k] = v
	}
	return out
}

// Errors returns the currently recorded validation messages per field.
func (f *Form) Errors() map[string][]string {
	out := make(map[string][]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Load fills the draft from an existing entity and switches the form to
// edit mode. Paths absent from values keep their zero value.
func (f *Form) Load(values map[string]string) error {
	for path, v := range values {
		if _, ok := f.paths[path]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, path)
		}
		f.fields[path] = v
	}
	f.editing = true
	f.state = StateLoaded
	return nil
}

// SetField merges a single field into the draft and clears any error
// previously recorded for it.
func (f *Form) SetField(path, value string) error {
	if _, ok := f.paths[path]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	f.fields[path] = value
	delete(f.errors, path)
	f.state = StateDirty
	return nil
}

// ValidateField runs the blur-time validation for one field and records
// the result. Returns the messages for that field, nil when clean.
func (f *Form) ValidateField(path string) []string {
	if _, ok := f.paths[path]; !ok {
		return nil
	}
	msgs := f.validatePath(path)
	if len(msgs) > 0 {
		f.errors[path] = msgs
	} else {
		delete(f.errors, path)
	}
	return msgs
}

func (f *Form) validatePath(path string) []string {
	value := f.fields[path]
	var msgs []string

	if msg, ok := f.required[path]; ok && value == "" {
		return []string{msg}
	}
	if value == "" {
		return nil
	}

	if path == f.email && !emailPattern.MatchString(value) {
		msgs = append(msgs, "Please enter a valid email address")
	}
	if path == f.password {
		msgs = append(msgs, validatePassword(value)...)
	}
	if path == f.confirm && value != f.fields[f.password] {
		msgs = append(msgs, "Passwords do not match")
	}
	return msgs
}

func validatePassword(password string) []string {
	var msgs []string
	if len(password) < passwordMinLength {
		msgs = append(msgs, fmt.Sprintf("Password must be at least %d characters long", passwordMinLength))
	}
	if !passwordUpper.MatchString(password) {
		msgs = append(msgs, "Password must contain at least one uppercase letter")
	}
	if !passwordLower.MatchString(password) {
		msgs = append(msgs, "Password must contain at least one lowercase letter")
	}
	if !passwordDigit.MatchString(password) {
		msgs = append(msgs, "Password must contain at least one number")
	}
	if !passwordSpecial.MatchString(password) {
		msgs = append(msgs, "Password must contain at least one special character")
	}
	return msgs
}

// Validate checks the whole draft and records the messages per field.
func (f *Form) Validate() map[string][]string {
	errs := make(map[string][]string)
	for path := range f.paths {
		if msgs := f.validatePath(path); len(msgs) > 0 {
			errs[path] = msgs
		}
	}
	f.errors = errs
	return f.Errors()
}

// Submit validates the draft and, when clean, hands the fields to save.
// The editing flag tells the callback whether to update or create. On a
// validation failure the form returns to Dirty with its errors recorded
// and a *ValidationError is returned; the entered data is preserved. On
// a save failure the form moves to Failed and may be resubmitted.
func (f *Form) Submit(ctx context.Context, save func(ctx context.Context, fields map[string]string, editing bool) error) error {
	f.state = StateValidating
	if errs := f.Validate(); len(errs) > 0 {
		f.state = StateDirty
		return &ValidationError{Fields: errs}
	}

	f.state = StateSubmitting
	if err := save(ctx, f.Fields(), f.editing); err != nil {
		f.state = StateFailed
		return err
	}
	f.state = StateSubmitted
	return nil
}
