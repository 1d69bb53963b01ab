package geodesic

import (
	"math"
	"sort"
)

// Strut is one class of equal-length edges, the unit a dome builder cuts material in.
// ChordFactor is Length divided by the sphere radius, which is what dome tables list.
type Strut struct {
	Label       string  `json:"label" yaml:"label"`
	Length      float64 `json:"length" yaml:"length"`
	ChordFactor float64 `json:"chord_factor" yaml:"chord_factor"`
	Count       int     `json:"count" yaml:"count"`
}

// Struts groups the mesh edges by length rounded to digits decimal places and returns one
// Strut per group, shortest first, labelled A, B, C, ... (AA, AB, ... past Z).
func (m *Mesh) Struts(digits int) []Strut {
	if digits < 0 {
		digits = 0
	}
	scale := math.Pow10(digits)
	byLength := make(map[float64]*Strut)
	for _, e := range m.Edges() {
		l := math.Round(m.EdgeLength(e)*scale) / scale
		s, ok := byLength[l]
		if !ok {
			s = &Strut{Length: l}
			if m.Radius > 0 {
				s.ChordFactor = l / m.Radius
			}
			byLength[l] = s
		}
		s.Count++
	}

	struts := make([]Strut, 0, len(byLength))
	for _, s := range byLength {
		struts = append(struts, *s)
	}
	sort.Slice(struts, func(i, j int) bool { return struts[i].Length < struts[j].Length })
	for i := range struts {
		struts[i].Label = strutLabel(i)
	}
	return struts
}

func strutLabel(i int) string {
	label := ""
	for {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
		if i < 0 {
			return label
		}
	}
}
