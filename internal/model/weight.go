package model

// WeightEntry is one body-weight sample. At most one entry exists per date
// key; adding a second entry for the same date replaces the first.
type WeightEntry struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}
