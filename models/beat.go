package models

// Beat is one timed caption unit produced by the plan step. Times are in
// seconds; beats are ordered non-decreasing by TStart but are not required
// to be contiguous.
type Beat struct {
	TStart float64 `json:"t_start"`
	TEnd   float64 `json:"t_end"`
	Text   string  `json:"text"`
}
