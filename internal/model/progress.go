package model

// Progress is the player's reward state: earned coins, experience and the
// set of activities already completed (so rewards are granted once).
type Progress struct {
	CompletedActivities map[string]bool `json:"completedActivities"`
	Coins               int             `json:"coins"`
	Level               int             `json:"level"`
	Experience          int             `json:"experience"`
}
