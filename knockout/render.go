// SPDX-License-Identifier: MIT

package knockout

import (
	"fmt"
	"io"
	"sort"
)

// Renderer is the display collaborator. SetReactionData(nil) clears the flux
// overlay; SetStatus replaces the status line.
type Renderer interface {
	SetReactionData(fluxes map[string]float64)
	SetStatus(text string)
}

// WriterRenderer prints flux tables and status lines to an io.Writer.
// Reactions are listed in sorted ID order; fluxes with |v| <= Epsilon are
// skipped unless ShowZero is set. Write errors are dropped, as a display has
// no one to report them to.
type WriterRenderer struct {
	w        io.Writer
	Epsilon  float64
	ShowZero bool
}

var _ Renderer = (*WriterRenderer)(nil)

// NewWriterRenderer renders to w.
func NewWriterRenderer(w io.Writer) *WriterRenderer {
	return &WriterRenderer{w: w, Epsilon: 1e-9}
}

func (r *WriterRenderer) SetReactionData(fluxes map[string]float64) {
	if fluxes == nil {
		fmt.Fprintln(r.w, "(no flux data)")
		return
	}
	ids := make([]string, 0, len(fluxes))
	for id := range fluxes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		v := fluxes[id]
		if !r.ShowZero && v <= r.Epsilon && v >= -r.Epsilon {
			continue
		}
		fmt.Fprintf(r.w, "  %-16s %12.4f\n", id, v)
	}
}

func (r *WriterRenderer) SetStatus(text string) {
	fmt.Fprintln(r.w, text)
}

// nopRenderer discards everything.
type nopRenderer struct{}

func (nopRenderer) SetReactionData(map[string]float64) {}
func (nopRenderer) SetStatus(string) {}
