// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package confj

import (
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/pretty"
)

// formatOptions keeps the rendering stable across runs: sorted keys,
// two-space indent, short arrays on one line.
var formatOptions = &pretty.Options{
	Width:    80,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: true,
}

// Format renders the raw value as indented JSON with sorted keys.
func (d *Data) Format() string {
	b, err := d.MarshalJSON()
	if err != nil {
		return "<invalid config data: " + err.Error() + ">"
	}
	return strings.TrimSuffix(string(pretty.PrettyOptions(b, formatOptions)), "\n")
}

// Print writes Format output followed by a newline.
func (d *Data) Print(w io.Writer) error {
	_, err := fmt.Fprintln(w, d.Format())
	return err
}
