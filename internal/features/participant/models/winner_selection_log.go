package models

import "time"

// WinnerSelectionLog is the append-only audit record of one selection run.
// Rows are immutable once written.
type WinnerSelectionLog struct {
	ID                 int64     `json:"id"`
	GiveawayID         int64     `json:"giveaway_id"`
	TotalParticipants  int       `json:"total_participants"`
	WinnerCountReq     int       `json:"winner_count_requested"`
	WinnerCountSel     int       `json:"winner_count_selected"`
	SelectionMethod    string    `json:"selection_method"`
	SelectionSeed      string    `json:"selection_seed,omitempty"`
	SelectedUserIDs    []int64   `json:"selected_user_ids"`
	SelectionTimestamp time.Time `json:"selection_timestamp"`
}
