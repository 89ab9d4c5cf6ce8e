package model

import (
	"encoding/json"
	"strings"

	"github.com/Leganyst/production-board/internal/layout"
)

// Product names that mark annotation entries instead of production runs.
const (
	SentinelMemo  = "MMO"
	SentinelShape = "SHAP"
)

// IsAnnotationProduct reports whether a product name is an annotation sentinel.
func IsAnnotationProduct(name string) bool {
	return name == SentinelMemo || name == SentinelShape
}

// AnnotationPayload is the free-form content and manual placement of a
// sticky note or shape. Coordinates are relative to the owning row.
type AnnotationPayload struct {
	Text   string   `json:"text,omitempty"`
	Type   string   `json:"type,omitempty"`
	Color  string   `json:"color,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"w,omitempty"`
	Height *float64 `json:"h,omitempty"`
	Scale  *float64 `json:"scale,omitempty"`
}

// UnmarshalJSON also accepts the long "width"/"height" keys.
func (p *AnnotationPayload) UnmarshalJSON(b []byte) error {
	type plain AnnotationPayload
	var aux struct {
		plain
		LongWidth  *float64 `json:"width,omitempty"`
		LongHeight *float64 `json:"height,omitempty"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = AnnotationPayload(aux.plain)
	if p.Width == nil {
		p.Width = aux.LongWidth
	}
	if p.Height == nil {
		p.Height = aux.LongHeight
	}
	return nil
}

// Position returns the stored placement, or nil when the annotation was
// never moved by hand.
func (p AnnotationPayload) Position() *layout.Position {
	if p.X == nil {
		return nil
	}
	pos := &layout.Position{X: *p.X}
	if p.Y != nil {
		pos.Y = *p.Y
	}
	if p.Width != nil {
		pos.Width = *p.Width
	}
	if p.Height != nil {
		pos.Height = *p.Height
	}
	if p.Scale != nil {
		pos.Scale = *p.Scale
	}
	return pos
}

// WithPosition returns a copy placed at x,y. Size and scale are kept.
func (p AnnotationPayload) WithPosition(x, y float64) AnnotationPayload {
	p.X, p.Y = &x, &y
	return p
}

// WithScale returns a copy with the zoom factor clamped to the allowed range.
func (p AnnotationPayload) WithScale(scale float64) AnnotationPayload {
	s := layout.ClampScale(scale)
	p.Scale = &s
	return p
}

// WithSize returns a copy with an explicit box size.
func (p AnnotationPayload) WithSize(w, h float64) AnnotationPayload {
	p.Width, p.Height = &w, &h
	return p
}

// NotesKind discriminates Notes.
type NotesKind int

const (
	NotesPlain NotesKind = iota
	NotesAnnotation
)

// Notes is either plain operator text or an annotation payload.
type Notes struct {
	Kind       NotesKind
	Text       string
	Annotation AnnotationPayload
}

// PlainNotes wraps free text.
func PlainNotes(text string) Notes {
	return Notes{Kind: NotesPlain, Text: text}
}

// AnnotationNotes wraps an annotation payload.
func AnnotationNotes(p AnnotationPayload) Notes {
	return Notes{Kind: NotesAnnotation, Annotation: p}
}

// DecodeNotes turns a raw notes field into Notes for the given product.
// Annotation entries accept a JSON payload or legacy plain text, which
// becomes the payload text. This is the only place the raw field is parsed.
func DecodeNotes(productName, raw string) Notes {
	if !IsAnnotationProduct(productName) {
		return PlainNotes(raw)
	}
	var p AnnotationPayload
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") && json.Unmarshal([]byte(trimmed), &p) == nil {
		return AnnotationNotes(p)
	}
	return AnnotationNotes(AnnotationPayload{Text: raw})
}

// Encode renders Notes into the single text field used by the business
// database.
func (n Notes) Encode() (string, error) {
	if n.Kind == NotesPlain {
		return n.Text, nil
	}
	b, err := json.Marshal(n.Annotation)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
