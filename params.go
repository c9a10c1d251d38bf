// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

import (
	"fmt"
	"maps"
)

// Params carries the parameters of a run. Values live either in the shared
// namespace or under an explicit instance namespace, so several instances of
// the same process type can run together without colliding: lookups name the
// instance, try its namespace first, and fall back to the shared one.
type Params struct {
	shared    map[string]any
	instances map[string]map[string]any
}

// NewParams creates an empty parameter set.
func NewParams() *Params {
	return &Params{shared: make(map[string]any)}
}

// Set stores a value in the shared namespace and returns p for chaining.
func (p *Params) Set(key string, v any) *Params {
	p.shared[key] = v
	return p
}

// SetFor stores a value in the namespace of the named process instance and
// returns p for chaining.
func (p *Params) SetFor(instance, key string, v any) *Params {
	if p.instances == nil {
		p.instances = make(map[string]map[string]any)
	}
	ns := p.instances[instance]
	if ns == nil {
		ns = make(map[string]any)
		p.instances[instance] = ns
	}
	ns[key] = v
	return p
}

// Lookup resolves key for the named instance: the instance namespace wins,
// then the shared namespace. An empty instance name searches only the shared
// namespace.
func (p *Params) Lookup(instance, key string) (any, bool) {
	if instance != "" {
		if v, ok := p.instances[instance][key]; ok {
			return v, true
		}
	}
	v, ok := p.shared[key]
	return v, ok
}

// Float resolves key for the named instance as a float64, coercing integer
// values. It fails with [ErrMissingParameter] if the key is absent and with
// [ErrConfiguration] if the value has an unusable type.
func (p *Params) Float(instance, key string) (float64, error) {
	v, ok := p.Lookup(instance, key)
	if !ok {
		return 0, fmt.Errorf("%w: %w: %q", ErrConfiguration, ErrMissingParameter, key)
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	}
	return 0, fmt.Errorf("%w: parameter %q is %T, want number", ErrConfiguration, key, v)
}

// Int resolves key for the named instance as an int. It fails with
// [ErrMissingParameter] if the key is absent and with [ErrConfiguration] if
// the value has an unusable type.
func (p *Params) Int(instance, key string) (int, error) {
	v, ok := p.Lookup(instance, key)
	if !ok {
		return 0, fmt.Errorf("%w: %w: %q", ErrConfiguration, ErrMissingParameter, key)
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x == float64(int(x)) {
			return int(x), nil
		}
	}
	return 0, fmt.Errorf("%w: parameter %q is %v (%T), want integer", ErrConfiguration, key, v, v)
}

// AsMap returns a flat copy of the parameter set for reporting: shared values
// at the top level, each instance namespace nested under its name.
func (p *Params) AsMap() map[string]any {
	out := make(map[string]any, len(p.shared)+len(p.instances))
	maps.Copy(out, p.shared)
	for name, ns := range p.instances {
		out[name] = maps.Clone(ns)
	}
	return out
}

// Results collects the outputs of a run, namespaced the same way as [Params]:
// a process with an instance name reports under that name, others report into
// the shared namespace.
type Results struct {
	shared    map[string]any
	instances map[string]map[string]any
}

// NewResults creates an empty result set.
func NewResults() *Results {
	return &Results{shared: make(map[string]any)}
}

// Set stores a shared result value.
func (r *Results) Set(key string, v any) *Results {
	r.shared[key] = v
	return r
}

// SetFor stores a result value under the named instance.
func (r *Results) SetFor(instance, key string, v any) *Results {
	if r.instances == nil {
		r.instances = make(map[string]map[string]any)
	}
	ns := r.instances[instance]
	if ns == nil {
		ns = make(map[string]any)
		r.instances[instance] = ns
	}
	ns[key] = v
	return r
}

// Lookup resolves key for the named instance, falling back to the shared
// namespace exactly as [Params.Lookup] does.
func (r *Results) Lookup(instance, key string) (any, bool) {
	if instance != "" {
		if v, ok := r.instances[instance][key]; ok {
			return v, true
		}
	}
	v, ok := r.shared[key]
	return v, ok
}

// AsMap returns a flat copy of the result set for reporting, in the same
// shape as [Params.AsMap].
func (r *Results) AsMap() map[string]any {
	out := make(map[string]any, len(r.shared)+len(r.instances))
	maps.Copy(out, r.shared)
	for name, ns := range r.instances {
		out[name] = maps.Clone(ns)
	}
	return out
}
