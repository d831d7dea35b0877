package storage

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"

	"github.com/pixil98/go-errors"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// ValidatingSpec is the contract every stored spec type meets: it can
// report everything wrong with itself at once.
type ValidatingSpec interface {
	Validate() error
}

// Asset is the on-disk envelope around a spec: a format version, the
// identifier the spec is filed under, and the spec itself.
type Asset[T ValidatingSpec] struct {
	Version uint   `json:"version"`
	Id      string `json:"id"`
	Spec    T      `json:"spec"`
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	if a.Id == "" {
		el.Add(fmt.Errorf("id must be set"))
	} else if !identifierPattern.MatchString(a.Id) {
		el.Add(fmt.Errorf("id must be alphanumeric"))
	}

	el.Add(a.Spec.Validate())

	return el.Err()
}

// Ref is a by-id reference from one asset to another, resolved against
// a store after all assets are loaded. It marshals as the bare id
// string.
type Ref[T ValidatingSpec] struct {
	key string
	val T
}

func NewRef[T ValidatingSpec](key string) Ref[T] {
	return Ref[T]{key: key}
}

func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &r.key)
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.key)
}

func (r Ref[T]) Validate() error {
	if r.key == "" {
		var zero T
		return fmt.Errorf("%s identifier is required", reflect.TypeOf(zero).Elem().Name())
	}
	return nil
}

// Resolve looks the reference up in the store. A dangling reference is
// an error; blueprints are checked before anything is built from them.
func (r *Ref[T]) Resolve(st Storer[T]) error {
	r.val = st.Get(r.key)
	if reflect.ValueOf(r.val).IsNil() {
		var zero T
		return fmt.Errorf("%s %q not found", reflect.TypeOf(zero).Elem().Name(), r.key)
	}
	return nil
}

// Key returns the referenced identifier.
func (r Ref[T]) Key() string {
	return r.key
}

// Value returns the resolved spec, or the zero value before Resolve.
func (r Ref[T]) Value() T {
	return r.val
}
