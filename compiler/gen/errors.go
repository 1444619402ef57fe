package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure kinds a generation run can produce.
var (
	// ErrInvalidConfig indicates an invalid generator configuration option.
	ErrInvalidConfig = errors.New("typeweave: invalid configuration")
	// ErrDuplicatePlugin indicates the same plugin name was registered twice.
	ErrDuplicatePlugin = errors.New("typeweave: duplicate plugin")
	// ErrPluginConfig indicates a plugin's configuration failed validation.
	ErrPluginConfig = errors.New("typeweave: invalid plugin configuration")
	// ErrCapabilityConflict indicates two plugins provide the same capability.
	ErrCapabilityConflict = errors.New("typeweave: capability conflict")
	// ErrNotSatisfied indicates a required capability has no provider.
	ErrNotSatisfied = errors.New("typeweave: capability not satisfied")
	// ErrCycle indicates the plugin dependency graph is cyclic.
	ErrCycle = errors.New("typeweave: capability cycle")
	// ErrCollision indicates two symbol declarations collide.
	ErrCollision = errors.New("typeweave: symbol collision")
	// ErrNotFound indicates a lookup referenced an undeclared capability.
	ErrNotFound = errors.New("typeweave: capability not found")
	// ErrEmitConflict indicates two emissions claim the same exported name.
	ErrEmitConflict = errors.New("typeweave: emit conflict")
	// ErrPluginFailed indicates a plugin's declare or render failed.
	ErrPluginFailed = errors.New("typeweave: plugin execution failed")
)

// ConfigError represents an invalid generator configuration option.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("typeweave: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("typeweave: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// DuplicatePluginError reports a plugin name registered more than once.
type DuplicatePluginError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicatePluginError) Error() string {
	return fmt.Sprintf("typeweave: plugin %q registered twice", e.Name)
}

// Is reports whether the target matches the sentinel error for DuplicatePluginError.
func (e *DuplicatePluginError) Is(target error) bool {
	return target == ErrDuplicatePlugin
}

// NewDuplicatePluginError creates a new DuplicatePluginError.
func NewDuplicatePluginError(name string) *DuplicatePluginError {
	return &DuplicatePluginError{Name: name}
}

// FieldError is one field-level message inside a PluginConfigError.
type FieldError struct {
	Field   string
	Message string
}

// PluginConfigError reports a plugin configuration blob that failed the
// plugin's own decode or validation step.
type PluginConfigError struct {
	Plugin string
	Fields []FieldError
	Cause  error
}

// Error implements the error interface.
func (e *PluginConfigError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "typeweave: invalid configuration for plugin %q", e.Plugin)
	for _, f := range e.Fields {
		b.WriteString(": ")
		if f.Field != "" {
			b.WriteString(f.Field)
			b.WriteString(" ")
		}
		b.WriteString(f.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *PluginConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for PluginConfigError.
func (e *PluginConfigError) Is(target error) bool {
	return target == ErrPluginConfig
}

// NewPluginConfigError creates a new PluginConfigError.
func NewPluginConfigError(plugin string, fields []FieldError, cause error) *PluginConfigError {
	return &PluginConfigError{
		Plugin: plugin,
		Fields: fields,
		Cause:  cause,
	}
}

// ConflictError reports two distinct plugins providing the identical
// capability string.
type ConflictError struct {
	Capability Capability
	Providers  [2]string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("typeweave: capability %q provided by both %q and %q",
		e.Capability, e.Providers[0], e.Providers[1])
}

// Is reports whether the target matches the sentinel error for ConflictError.
func (e *ConflictError) Is(target error) bool {
	return target == ErrCapabilityConflict
}

// NewConflictError creates a new ConflictError.
func NewConflictError(capability Capability, first, second string) *ConflictError {
	return &ConflictError{
		Capability: capability,
		Providers:  [2]string{first, second},
	}
}

// UnsatisfiedError reports a required capability with no provider.
type UnsatisfiedError struct {
	Plugin     string
	Capability Capability
}

// Error implements the error interface.
func (e *UnsatisfiedError) Error() string {
	return fmt.Sprintf("typeweave: capability %q required by plugin %q is not provided by any plugin",
		e.Capability, e.Plugin)
}

// Is reports whether the target matches the sentinel error for UnsatisfiedError.
func (e *UnsatisfiedError) Is(target error) bool {
	return target == ErrNotSatisfied
}

// NewUnsatisfiedError creates a new UnsatisfiedError.
func NewUnsatisfiedError(plugin string, capability Capability) *UnsatisfiedError {
	return &UnsatisfiedError{
		Plugin:     plugin,
		Capability: capability,
	}
}

// CycleError reports a dependency cycle between plugins. Cycle holds the
// plugin names in cycle order; the edge from the last name back to the first
// closes the cycle.
type CycleError struct {
	Cycle []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("typeweave: capability cycle: %s", strings.Join(e.Cycle, " -> "))
}

// Is reports whether the target matches the sentinel error for CycleError.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// NewCycleError creates a new CycleError.
func NewCycleError(cycle []string) *CycleError {
	return &CycleError{Cycle: cycle}
}

// CollisionError reports two symbol declarations that collide, either on the
// exact capability key or on an exported (name, file) pair claimed by two
// different plugins.
type CollisionError struct {
	Name       string
	Capability Capability
	File       string
	Plugins    [2]string
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	var b strings.Builder
	b.WriteString("typeweave: symbol collision")
	if e.Capability != "" {
		fmt.Fprintf(&b, " on capability %q", e.Capability)
	}
	if e.Name != "" {
		fmt.Fprintf(&b, ": name %q", e.Name)
	}
	if e.File != "" {
		fmt.Fprintf(&b, " in file %q", e.File)
	}
	fmt.Fprintf(&b, " declared by both %q and %q", e.Plugins[0], e.Plugins[1])
	return b.String()
}

// Is reports whether the target matches the sentinel error for CollisionError.
func (e *CollisionError) Is(target error) bool {
	return target == ErrCollision
}

// NewCollisionError creates a new CollisionError.
func NewCollisionError(name string, capability Capability, file, first, second string) *CollisionError {
	return &CollisionError{
		Name:       name,
		Capability: capability,
		File:       file,
		Plugins:    [2]string{first, second},
	}
}

// NotFoundError reports a lookup of a capability no plugin declared.
type NotFoundError struct {
	Capability Capability
	Plugin     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Plugin != "" {
		return fmt.Sprintf("typeweave: capability %q referenced by plugin %q is not declared", e.Capability, e.Plugin)
	}
	return fmt.Sprintf("typeweave: capability %q is not declared", e.Capability)
}

// Is reports whether the target matches the sentinel error for NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(capability Capability, plugin string) *NotFoundError {
	return &NotFoundError{
		Capability: capability,
		Plugin:     plugin,
	}
}

// EmitConflictError reports two emissions that irreconcilably claim the same
// exported name in one file, or an invalid mix of fragment modes in one file.
type EmitConflictError struct {
	File    string
	Name    string
	Plugins [2]string
	Reason  string
}

// Error implements the error interface.
func (e *EmitConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "typeweave: emit conflict in file %q", e.File)
	if e.Name != "" {
		fmt.Fprintf(&b, ": export %q", e.Name)
	}
	if e.Plugins[0] != "" || e.Plugins[1] != "" {
		fmt.Fprintf(&b, " claimed by both %q and %q", e.Plugins[0], e.Plugins[1])
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for EmitConflictError.
func (e *EmitConflictError) Is(target error) bool {
	return target == ErrEmitConflict
}

// NewEmitConflictError creates a new EmitConflictError.
func NewEmitConflictError(file, name, first, second, reason string) *EmitConflictError {
	return &EmitConflictError{
		File:    file,
		Name:    name,
		Plugins: [2]string{first, second},
		Reason:  reason,
	}
}

// PluginError wraps an unexpected failure raised by a plugin's declare or
// render call, or a plugin contract violation detected around those calls.
type PluginError struct {
	Plugin string
	Phase  Phase
	Cause  error
}

// Error implements the error interface.
func (e *PluginError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "typeweave: plugin %q failed", e.Plugin)
	if e.Phase != 0 {
		fmt.Fprintf(&b, " during %s", e.Phase)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *PluginError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for PluginError.
func (e *PluginError) Is(target error) bool {
	return target == ErrPluginFailed
}

// NewPluginError creates a new PluginError.
func NewPluginError(plugin string, phase Phase, cause error) *PluginError {
	return &PluginError{
		Plugin: plugin,
		Phase:  phase,
		Cause:  cause,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsDuplicatePluginError reports whether the error is a DuplicatePluginError.
func IsDuplicatePluginError(err error) bool {
	var dupErr *DuplicatePluginError
	return errors.As(err, &dupErr)
}

// IsPluginConfigError reports whether the error is a PluginConfigError.
func IsPluginConfigError(err error) bool {
	var cfgErr *PluginConfigError
	return errors.As(err, &cfgErr)
}

// IsConflictError reports whether the error is a ConflictError.
func IsConflictError(err error) bool {
	var conflictErr *ConflictError
	return errors.As(err, &conflictErr)
}

// IsUnsatisfiedError reports whether the error is an UnsatisfiedError.
func IsUnsatisfiedError(err error) bool {
	var unsatErr *UnsatisfiedError
	return errors.As(err, &unsatErr)
}

// IsCycleError reports whether the error is a CycleError.
func IsCycleError(err error) bool {
	var cycleErr *CycleError
	return errors.As(err, &cycleErr)
}

// IsCollisionError reports whether the error is a CollisionError.
func IsCollisionError(err error) bool {
	var collErr *CollisionError
	return errors.As(err, &collErr)
}

// IsNotFoundError reports whether the error is a NotFoundError.
func IsNotFoundError(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

// IsEmitConflictError reports whether the error is an EmitConflictError.
func IsEmitConflictError(err error) bool {
	var emitErr *EmitConflictError
	return errors.As(err, &emitErr)
}

// IsPluginError reports whether the error is a PluginError.
func IsPluginError(err error) bool {
	var pluginErr *PluginError
	return errors.As(err, &pluginErr)
}
