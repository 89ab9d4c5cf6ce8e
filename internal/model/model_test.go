package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leganyst/production-board/internal/layout"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		label string
		want  ProductionStatus
		known bool
	}{
		{"予定", StatusNotStarted, true},
		{"未生産", StatusNotStarted, true},
		{"", StatusNotStarted, true},
		{"生産中", StatusInProgress, true},
		{"生産終了", StatusFinished, true},
		{"完了", StatusFinished, true},
		{" Finished ", StatusFinished, true},
		{"???", StatusNotStarted, false},
	}
	for _, tt := range tests {
		got, ok := NormalizeStatus(tt.label)
		assert.Equal(t, tt.want, got, "label %q", tt.label)
		assert.Equal(t, tt.known, ok, "label %q", tt.label)
	}
	assert.Equal(t, "生産中", StatusInProgress.Label())
	assert.Equal(t, "変更あり", SyncModified.Label())
}

func TestDecodeNotes(t *testing.T) {
	plain := DecodeNotes("FS450D", `{"x": 1}`)
	assert.Equal(t, NotesPlain, plain.Kind)
	assert.Equal(t, `{"x": 1}`, plain.Text)

	memo := DecodeNotes(SentinelMemo, `{"text":"check roll","x":120,"y":15,"w":260,"scale":1.5}`)
	require.Equal(t, NotesAnnotation, memo.Kind)
	assert.Equal(t, "check roll", memo.Annotation.Text)
	pos := memo.Annotation.Position()
	require.NotNil(t, pos)
	assert.Equal(t, layout.Position{X: 120, Y: 15, Width: 260, Scale: 1.5}, *pos)

	legacy := DecodeNotes(SentinelMemo, "just text")
	require.Equal(t, NotesAnnotation, legacy.Kind)
	assert.Equal(t, "just text", legacy.Annotation.Text)
	assert.Nil(t, legacy.Annotation.Position())

	long := DecodeNotes(SentinelShape, `{"type":"circle","x":5,"width":300,"height":150}`)
	require.NotNil(t, long.Annotation.Width)
	assert.Equal(t, 300.0, *long.Annotation.Width)
	assert.Equal(t, 150.0, *long.Annotation.Height)
}

func TestNotes_EncodeRoundTrip(t *testing.T) {
	p := AnnotationPayload{Type: "rect", Color: "red"}.WithPosition(40, 10).WithScale(5)
	raw, err := AnnotationNotes(p).Encode()
	require.NoError(t, err)

	back := DecodeNotes(SentinelShape, raw)
	require.Equal(t, NotesAnnotation, back.Kind)
	assert.Equal(t, "rect", back.Annotation.Type)
	require.NotNil(t, back.Annotation.Scale)
	assert.Equal(t, layout.MaxAnnotationScale, *back.Annotation.Scale)
}

func TestScheduleEntry_SetNotesKind(t *testing.T) {
	prod := &ScheduleEntry{ProductName: "FS021"}
	require.NoError(t, prod.SetNotes(PlainNotes("line 2")))
	assert.Equal(t, "line 2", prod.Notes().Text)
	assert.ErrorIs(t, prod.SetNotes(AnnotationNotes(AnnotationPayload{})), ErrNotesKindMismatch)

	memo := &ScheduleEntry{ProductName: SentinelMemo}
	require.NoError(t, memo.SetNotes(AnnotationNotes(AnnotationPayload{Text: "hello"}.WithPosition(1, 2))))
	assert.Equal(t, "hello", memo.NotesText)
	assert.Equal(t, "hello", memo.Notes().Annotation.Text)
	assert.ErrorIs(t, memo.SetNotes(PlainNotes("x")), ErrNotesKindMismatch)
}

func TestScheduleEntry_SetTimes(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	e := &ScheduleEntry{}
	start := time.Date(2025, 4, 2, 5, 30, 0, 0, jst)

	e.SetTimes(start, nil, jst)

	assert.Equal(t, time.UTC, e.StartTime.Location())
	assert.Nil(t, e.EndTime)
	assert.Equal(t, "2025-04-01", e.Day().String())
	assert.Equal(t, time.Hour, e.Duration())
	assert.Equal(t, "2025-04-01", layout.ProductionDayKey(e.In(jst).StartTime).String())
}
