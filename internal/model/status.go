package model

import "strings"

// ProductionStatus is the progress of a production run.
type ProductionStatus string

const (
	StatusNotStarted ProductionStatus = "not_started"
	StatusInProgress ProductionStatus = "in_progress"
	StatusFinished   ProductionStatus = "finished"
)

// Legacy labels found in stored and remote records.
var statusSynonyms = map[string]ProductionStatus{
	"":            StatusNotStarted,
	"予定":          StatusNotStarted,
	"未生産":         StatusNotStarted,
	"not_started": StatusNotStarted,
	"not-started": StatusNotStarted,
	"planned":     StatusNotStarted,
	"pending":     StatusNotStarted,
	"生産中":         StatusInProgress,
	"in_progress": StatusInProgress,
	"in-progress": StatusInProgress,
	"生産終了":        StatusFinished,
	"完了":          StatusFinished,
	"finished":    StatusFinished,
	"completed":   StatusFinished,
	"done":        StatusFinished,
}

// NormalizeStatus maps any known label onto the status enum. ok is false
// for unknown labels, which are treated as not started.
func NormalizeStatus(label string) (ProductionStatus, bool) {
	s, ok := statusSynonyms[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return StatusNotStarted, false
	}
	return s, true
}

// Label is the operator-facing label written to the business database.
func (s ProductionStatus) Label() string {
	switch s {
	case StatusInProgress:
		return "生産中"
	case StatusFinished:
		return "生産終了"
	default:
		return "未生産"
	}
}

// Valid reports whether s is one of the enum values.
func (s ProductionStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusFinished:
		return true
	}
	return false
}

// SyncStatus tracks whether a local entry matches the business database.
type SyncStatus string

const (
	SyncPending  SyncStatus = "pending"
	SyncSynced   SyncStatus = "synced"
	SyncModified SyncStatus = "modified"
)

// Label is the operator-facing label of the sync state.
func (s SyncStatus) Label() string {
	switch s {
	case SyncPending:
		return "未同期"
	case SyncSynced:
		return "同期済み"
	case SyncModified:
		return "変更あり"
	}
	return string(s)
}
