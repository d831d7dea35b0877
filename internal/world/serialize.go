package world

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"reflect"
)

// Record is a serialized entity snapshot: a self-describing field map
// with a "type" tag, suitable for JSON persistence. Records are
// immutable values once produced; mutating the live object afterwards
// does not track into a snapshot already handed out.
//
// All values inside a Record are canonical (integers as int64, child
// lists as []any of Record), so records built in memory and records
// decoded from JSON compare equal field for field.
type Record map[string]any

// canon rewrites a value into canonical record form.
func canon(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int64:
		return t
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return int64(t)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case Record:
		return canonRecord(t)
	case map[string]any:
		return canonRecord(Record(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = canon(e)
		}
		return out
	case []Record:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = canon(e)
		}
		return out
	default:
		return v
	}
}

func canonRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = canon(v)
	}
	return out
}

// fieldEqual compares two record values modulo canonical form.
func fieldEqual(a, b any) bool {
	return reflect.DeepEqual(canon(a), canon(b))
}

func asInt(v any) (int64, bool) {
	switch t := canon(v).(type) {
	case int64:
		return t, true
	}
	return 0, false
}

// writeFields emits every base descriptive field, default-valued ones
// included, plus the sparse extras (template id, portable location
// reference). Weight is never omitted: a baseline can carry a non-zero
// weight, and only an explicit value in the record can override it back
// down. Children are handled by Serialize so compression can recurse.
func (o *Object) writeFields(rec Record) {
	rec["keyword"] = o.keyword
	rec["display"] = o.display
	rec["description"] = o.description
	rec["weight"] = o.weight
	if o.templateID != "" {
		rec["template"] = o.templateID
	}
	if r, ok := o.location.(*Room); ok {
		if ref := r.Ref(); ref != "" {
			rec["location"] = ref
		}
	}
}

func (o *Object) readFields(rec Record) {
	if v, ok := rec["keyword"].(string); ok {
		o.keyword = v
	}
	if v, ok := rec["display"].(string); ok {
		o.display = v
	}
	if v, ok := rec["description"].(string); ok {
		o.description = v
	}
	if v, ok := rec["template"].(string); ok {
		o.templateID = v
	}
	if v, ok := asInt(rec["weight"]); ok {
		o.SetWeight(int(v))
	}
}

func (r *Room) writeFields(rec Record) {
	r.Object.writeFields(rec)
	rec["x"] = r.coord.X
	rec["y"] = r.coord.Y
	rec["z"] = r.coord.Z
	rec["exits"] = int(r.exits)
	rec["dense"] = r.dense
}

func (r *Room) readFields(rec Record) {
	r.Object.readFields(rec)
	if v, ok := asInt(rec["x"]); ok {
		r.coord.X = int(v)
	}
	if v, ok := asInt(rec["y"]); ok {
		r.coord.Y = int(v)
	}
	if v, ok := asInt(rec["z"]); ok {
		r.coord.Z = int(v)
	}
	if v, ok := asInt(rec["exits"]); ok {
		r.exits = Direction(v)
	}
	if v, ok := rec["dense"].(bool); ok {
		r.dense = v
	}
}

// Serialize produces a snapshot of the entity and its whole subtree.
// Uncompressed, the record carries every descriptive field; compressed,
// it is reduced to the type tag, identity, template id, and only the
// fields whose value differs from the applicable baseline. The two
// encodings normalize to identical results.
func Serialize(e Entity, compress bool) Record {
	rec := Record{"type": e.TypeTag()}
	if id := e.Base().id; id != 0 {
		rec["id"] = id
	}
	e.writeFields(rec)

	if kids := e.Base().children; len(kids) > 0 {
		arr := make([]any, len(kids))
		for i, c := range kids {
			arr[i] = Serialize(c, compress)
		}
		rec["children"] = arr
	}

	if compress {
		rec = compressRecord(rec, baselineFor(e))
	}
	return canonRecord(rec)
}

// compressRecord strips every field equal to its baseline value. Type,
// identity, and template id always survive; children are already
// compressed individually.
func compressRecord(rec, base Record) Record {
	if base == nil {
		return rec
	}
	out := Record{"type": rec["type"]}
	if v, ok := rec["id"]; ok {
		out["id"] = v
	}
	if v, ok := rec["template"]; ok {
		out["template"] = v
	}
	for k, v := range rec {
		switch k {
		case "type", "id", "template", "children":
			continue
		}
		if bv, ok := base[k]; ok && fieldEqual(v, bv) {
			continue
		}
		out[k] = v
	}
	if cs, ok := rec["children"]; ok {
		out["children"] = cs
	}
	return out
}

// baselineFor resolves the diff target for an entity: its template's
// baseline when it has one, otherwise the type-level baseline.
func baselineFor(e Entity) Record {
	if tid := e.Base().templateID; tid != "" {
		if b := templateBaseline(tid); b != nil {
			return b
		}
	}
	return typeBaseline(e.TypeTag())
}

// templateBaseline resolves a template id to a baseline record: the live
// template's cached (or freshly computed) baseline first, then the
// process-wide fallback cache for templates whose dictionary is no
// longer loaded.
func templateBaseline(tid string) Record {
	if t := FindTemplate(tid); t != nil {
		return t.Baseline()
	}
	if b, ok := DefaultBaselines.lookup(tid); ok {
		return b
	}
	return nil
}

// newEntityByTag constructs a fresh instance of a concrete kind.
// Spatially-typed kinds get the neutral coordinate.
func newEntityByTag(tag string) Entity {
	switch tag {
	case "object":
		return NewObject()
	case "item":
		return NewItem()
	case "movable":
		return NewMovable()
	case "creature":
		return NewCreature()
	case "room":
		return NewRoom(Coordinate{})
	}
	return nil
}

// typeBaseline returns the cached full serialization of a zero-argument
// instance of the tag's kind, or nil for an unknown tag.
func typeBaseline(tag string) Record {
	if b, ok := DefaultBaselines.lookupType(tag); ok {
		return b
	}
	e := newEntityByTag(tag)
	if e == nil {
		return nil
	}
	e.Base().id = 0
	b := Serialize(e, false)
	DefaultBaselines.storeType(tag, b)
	return b
}

// BaselineCache holds computed baseline serializations, keyed by type
// tag and by template id. Like the other process-wide registries it
// starts empty and is never swept implicitly.
type BaselineCache struct {
	byType     map[string]Record
	byTemplate map[string]Record
}

// DefaultBaselines is the process-wide baseline cache.
var DefaultBaselines = NewBaselineCache()

func NewBaselineCache() *BaselineCache {
	return &BaselineCache{
		byType:     map[string]Record{},
		byTemplate: map[string]Record{},
	}
}

func (c *BaselineCache) lookup(tid string) (Record, bool) {
	b, ok := c.byTemplate[tid]
	return b, ok
}

func (c *BaselineCache) store(tid string, b Record) {
	c.byTemplate[tid] = b
}

func (c *BaselineCache) lookupType(tag string) (Record, bool) {
	b, ok := c.byType[tag]
	return b, ok
}

func (c *BaselineCache) storeType(tag string, b Record) {
	c.byType[tag] = b
}

// Normalize overlays a record, compressed or not, onto its resolved
// baseline and recurses into children, producing the full equivalent.
// Compressed and uncompressed encodings of the same object normalize to
// identical records. A missing or unknown type tag is an error; the
// identity field is never inherited from a baseline.
func Normalize(rec Record) (Record, error) {
	tag, _ := rec["type"].(string)
	if tag == "" {
		return nil, fmt.Errorf("record missing type tag")
	}

	var base Record
	if tid, ok := rec["template"].(string); ok && tid != "" {
		base = templateBaseline(tid)
	}
	if base == nil {
		base = typeBaseline(tag)
		if base == nil {
			return nil, fmt.Errorf("unrecognized type tag %q", tag)
		}
	}

	out := make(Record, len(base)+len(rec))
	for k, v := range base {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	for k, v := range rec {
		out[k] = canon(v)
	}

	if cs, ok := out["children"].([]any); ok {
		kids := make([]any, 0, len(cs))
		for _, cv := range cs {
			cr, ok := cv.(Record)
			if !ok {
				slog.Warn("dropping malformed child record", "type", tag)
				continue
			}
			nc, err := Normalize(cr)
			if err != nil {
				return nil, err
			}
			kids = append(kids, nc)
		}
		out["children"] = kids
	}

	return out, nil
}

// Deserialize reconstructs an entity tree from a snapshot. The record is
// normalized first, so compressed payloads reconstruct identically to
// full ones provided the referenced template dictionaries are loaded.
// Children are reconstructed recursively; a resolvable location
// reference places the result, an unresolvable one just logs.
func Deserialize(rec Record) (Entity, error) {
	norm, err := Normalize(rec)
	if err != nil {
		return nil, err
	}

	tag := norm["type"].(string)
	e := newEntityByTag(tag)
	if e == nil {
		return nil, fmt.Errorf("unrecognized type tag %q", tag)
	}

	e.readFields(norm)
	if id, ok := asInt(norm["id"]); ok && id > 0 {
		e.Base().id = id
		bumpIDCounter(id)
	}

	if cs, ok := norm["children"].([]any); ok {
		for _, cv := range cs {
			cr, ok := cv.(Record)
			if !ok {
				continue
			}
			c, err := Deserialize(cr)
			if err != nil {
				return nil, err
			}
			e.Base().Add(c)
		}
	}

	// Worn marks reference child identities, so they resolve only after
	// the children exist.
	if c, ok := e.(*Creature); ok {
		c.restoreEquipment(norm)
	}

	if ref, ok := norm["location"].(string); ok && ref != "" {
		if room := GetRoomByRef(ref); room != nil {
			room.Add(e)
		} else {
			slog.Warn("unresolvable location reference", "ref", ref, "type", tag)
		}
	}

	return e, nil
}

// bumpIDCounter keeps freshly allocated identities above any identity
// restored from a snapshot.
func bumpIDCounter(id int64) {
	for {
		cur := idCounter.Load()
		if cur >= id || idCounter.CompareAndSwap(cur, id) {
			return
		}
	}
}
