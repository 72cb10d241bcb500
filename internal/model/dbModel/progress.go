package dbModel

type Progress struct {
	PlayerID   int64  `db:"player_id"`
	Coins      int    `db:"coins"`
	Level      int    `db:"level"`
	Experience int    `db:"experience"`
	Activities []byte `db:"activities"` // JSON-encoded set of activity IDs
}
