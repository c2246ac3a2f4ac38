// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package confj

import (
	"encoding/json"
	"maps"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Query resolves a gjson path ("db.port", "projects.0.name", "projects.#.id")
// against the node. Mapping results are detached copies wrapped in *Data.
func (d *Data) Query(path string) (any, error) {
	b, err := d.MarshalJSON()
	if err != nil {
		return nil, configError("query", "encode config data: %v", err)
	}
	res := gjson.GetBytes(b, path)
	if !res.Exists() {
		return nil, noOptionError("query", path)
	}
	v, err := decodeJSON([]byte(res.Raw))
	if err != nil {
		return nil, configError("query", "decode %q: %v", path, err)
	}
	return wrap(v), nil
}

// SetPath assigns value at an sjson path, creating intermediate mappings.
// The node's own map is updated in place; views taken earlier on nested
// sections no longer observe later changes.
func (d *Data) SetPath(path string, value any) error {
	m, ok := d.mapping()
	if !ok {
		return configError("set_path", "cannot set %q on %s config option", path, d.Kind())
	}
	raw, err := Normalize(value)
	if err != nil {
		return configError("set_path", "cannot store %T under %q: %v", value, path, err)
	}
	doc, err := json.Marshal(m)
	if err != nil {
		return configError("set_path", "encode config data: %v", err)
	}
	out, err := sjson.SetBytes(doc, path, raw)
	if err != nil {
		return configError("set_path", "set %q: %v", path, err)
	}
	v, err := decodeJSON(out)
	if err != nil {
		return configError("set_path", "decode result: %v", err)
	}
	next, ok := v.(map[string]any)
	if !ok {
		return configError("set_path", "path %q replaced the mapping", path)
	}
	clear(m)
	maps.Copy(m, next)
	return nil
}
