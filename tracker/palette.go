/*
NAME
  palette.go

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package tracker

// RGB is an 8-bit illumination color.
type RGB struct {
	R, G, B uint8
}

// paletteEntry is one candidate illumination colour and whether it is
// currently assigned to an enabled controller.
type paletteEntry struct {
	color RGB
	used  bool
}

// palette is the ordered set of candidate illumination colors a Tracker can
// assign to controllers. The source's intrusive linked list (spec.md §9) is
// replaced here by a plain slice in fixed insertion order, which keeps
// allocation deterministic: pickFree always returns the first free entry in
// that order.
type palette struct {
	entries []paletteEntry
}

// newPalette returns the palette pre-populated with the fixed candidate
// colors from spec.md §6: magenta, cyan, blue, in that order.
func newPalette() *palette {
	return &palette{entries: []paletteEntry{
		{color: RGB{255, 0, 255}}, // magenta
		{color: RGB{0, 255, 255}}, // cyan
		{color: RGB{0, 0, 255}},   // blue
	}}
}

// pickFree returns the first free candidate color in palette order, and
// false if every candidate is in use.
func (p *palette) pickFree() (RGB, bool) {
	for i := range p.entries {
		if !p.entries[i].used {
			return p.entries[i].color, true
		}
	}
	return RGB{}, false
}

// find returns a pointer to the entry matching rgb, or nil.
func (p *palette) find(rgb RGB) *paletteEntry {
	for i := range p.entries {
		if p.entries[i].color == rgb {
			return &p.entries[i]
		}
	}
	return nil
}

// mark sets the used flag of the entry matching rgb, if any, and reports
// whether a matching entry was found.
func (p *palette) mark(rgb RGB, used bool) bool {
	e := p.find(rgb)
	if e == nil {
		return false
	}
	e.used = used
	return true
}

// usedCount returns the number of palette entries currently marked in use.
func (p *palette) usedCount() int {
	n := 0
	for _, e := range p.entries {
		if e.used {
			n++
		}
	}
	return n
}
