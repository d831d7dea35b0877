package world

import (
	"fmt"
	"strings"
)

// Template is a sparse field-override record used to stamp out similar
// instances cheaply. Only fields differing from the type default are
// stored; location, children, and numeric identity never are. A
// template's own full serialization is cached once and reused as the
// compression diff target for every instance stamped from it.
type Template struct {
	ID     string
	Tag    string
	Fields Record

	baseline Record
}

// NewTemplate registers the overrides of a fully-specified object as a
// template: every field of its full serialization that differs from the
// type default.
func NewTemplate(id string, e Entity) *Template {
	full := Serialize(e, false)
	base := typeBaseline(e.TypeTag())

	fields := Record{}
	for k, v := range full {
		switch k {
		case "type", "id", "template", "children", "location":
			continue
		}
		if bv, ok := base[k]; ok && fieldEqual(v, bv) {
			continue
		}
		fields[k] = v
	}

	return &Template{ID: id, Tag: e.TypeTag(), Fields: fields}
}

// NewTemplateFields builds a template straight from override fields.
// Identity, children, and location entries are discarded.
func NewTemplateFields(id, tag string, fields Record) *Template {
	clean := Record{}
	for k, v := range fields {
		switch k {
		case "type", "id", "template", "children", "location":
			continue
		}
		clean[k] = canon(v)
	}
	return &Template{ID: id, Tag: tag, Fields: clean}
}

// Apply layers the template's override fields onto an existing entity
// and records the template id on it.
func (t *Template) Apply(e Entity) {
	e.readFields(t.Fields)
	e.Base().templateID = t.ID
}

// Instantiate stamps out a fresh instance of the template's kind with
// the overrides applied. Unknown kinds are a data error and fail loud.
func (t *Template) Instantiate() (Entity, error) {
	e := newEntityByTag(t.Tag)
	if e == nil {
		return nil, fmt.Errorf("template %q: unrecognized type tag %q", t.ID, t.Tag)
	}
	t.Apply(e)
	return e, nil
}

// Baseline returns the cached full serialization of a pristine instance
// of this template, computing and caching it (locally and in the
// process-wide fallback cache) on first use.
func (t *Template) Baseline() Record {
	if t.baseline != nil {
		return t.baseline
	}
	e, err := t.Instantiate()
	if err != nil {
		return nil
	}
	e.Base().id = 0
	t.baseline = Serialize(e, false)
	DefaultBaselines.store(t.ID, t.baseline)
	return t.baseline
}

// FindTemplate resolves a template id. World-qualified ids of the form
// "@world-id:local-id" go through that world's dictionary; unqualified
// ids scan every registered world in registration order and return the
// first hit. Callers spanning multiple worlds should qualify their ids.
// Returns nil when nothing matches.
func FindTemplate(id string) *Template {
	if rest, ok := strings.CutPrefix(id, "@"); ok {
		worldID, local, ok := strings.Cut(rest, ":")
		if !ok {
			return nil
		}
		w := DefaultWorlds.Lookup(worldID)
		if w == nil {
			return nil
		}
		return w.Template(local)
	}

	for _, w := range DefaultWorlds.All() {
		if t := w.Template(id); t != nil {
			return t
		}
	}
	return nil
}
