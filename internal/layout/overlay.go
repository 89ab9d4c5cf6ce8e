package layout

const (
	// DefaultAnnotationWidth and DefaultAnnotationHeight size annotations
	// without a stored size.
	DefaultAnnotationWidth  = 240.0
	DefaultAnnotationHeight = 120.0

	// Stored sizes below these are legacy defaults and are replaced.
	legacyMinAnnotationWidth  = 200.0
	legacyMinAnnotationHeight = 100.0

	MinAnnotationScale = 0.3
	MaxAnnotationScale = 3.0
)

// Position is a manually placed annotation box, relative to the top-left
// corner of its row's content area.
type Position struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Scale  float64
}

// Placement is where an annotation is drawn inside its row.
type Placement struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
	Scale  float64
	// Stored is true when the position came from a previous manual move.
	Stored bool
}

// AnnotationSize is the default box of a newly derived annotation.
type AnnotationSize struct {
	Width  float64
	Height float64
}

func (sz AnnotationSize) orDefault() AnnotationSize {
	if sz.Width <= 0 {
		sz.Width = DefaultAnnotationWidth
	}
	if sz.Height <= 0 {
		sz.Height = DefaultAnnotationHeight
	}
	return sz
}

// PlaceAnnotation positions an annotation inside the row it belongs to.
// A stored position wins; otherwise the left edge is derived from the time
// range with the same transform as bars and the box gets the default size.
// Annotations never take part in lane packing.
func (g Geometry) PlaceAnnotation(row TimeRange, iv Interval, stored *Position, size AnnotationSize) Placement {
	size = size.orDefault()

	if stored != nil {
		p := Placement{
			Left:   stored.X,
			Top:    stored.Y,
			Width:  stored.Width,
			Height: stored.Height,
			Scale:  ClampScale(stored.Scale),
			Stored: true,
		}
		if p.Width < legacyMinAnnotationWidth {
			p.Width = size.Width
		}
		if p.Height < legacyMinAnnotationHeight {
			p.Height = size.Height
		}
		return p
	}

	start := row.Clamp(iv.Start)
	return Placement{
		Left:   g.Scale.Offset(row.Start, start),
		Top:    g.BaseMargin,
		Width:  size.Width,
		Height: size.Height,
		Scale:  1,
	}
}

// ClampScale limits an annotation zoom factor; zero means unscaled.
func ClampScale(s float64) float64 {
	switch {
	case s == 0:
		return 1
	case s < MinAnnotationScale:
		return MinAnnotationScale
	case s > MaxAnnotationScale:
		return MaxAnnotationScale
	}
	return s
}
