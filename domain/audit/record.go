package audit

import (
	"time"

	"fairselect/domain/core"
	"fairselect/domain/selection"
)

// Record is the persistent artifact of one audit run: the configuration it
// ran under, the equalized cutoffs, and the parity report. Either the whole
// record is produced or the run failed; there are no partial records.
type Record struct {
	ID        core.AuditID        `json:"id" db:"id"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
	Config    selection.Config    `json:"config"`
	Cutoffs   selection.CutoffMap `json:"cutoffs"`
	AchievedK int                 `json:"achieved_k"`
	// Iterations is the number of threshold increments the search took;
	// together with AchievedK it lets callers judge budget overshoot
	Iterations int           `json:"iterations"`
	Threshold  float64       `json:"threshold"`
	Report     *ParityReport `json:"report"`
	RuntimeMs  int64         `json:"runtime_ms"`
}
