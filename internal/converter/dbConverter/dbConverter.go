package dbConverter

import (
	"encoding/json"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model/dbModel"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/rewards"
)

func ConvertTransaction(dbTx dbModel.Transaction) model.Transaction {
	return model.Transaction{
		ID:            dbTx.TxID,
		Symbol:        dbTx.Symbol,
		Shares:        dbTx.Shares,
		PricePerShare: dbTx.PricePerShare,
		Kind:          model.TransactionKind(dbTx.Kind),
		Timestamp:     dbTx.CreatedAt,
	}
}

func ConvertProgress(dbProgress dbModel.Progress) model.Progress {
	progress := rewards.NewProgress()
	progress.Coins = dbProgress.Coins
	progress.Level = dbProgress.Level
	progress.Experience = dbProgress.Experience

	if len(dbProgress.Activities) > 0 {
		var activities []string
		if err := json.Unmarshal(dbProgress.Activities, &activities); err == nil {
			for _, id := range activities {
				progress.CompletedActivities[id] = true
			}
		}
	}

	return progress
}

func ConvertProgressToDb(playerID int64, progress model.Progress) dbModel.Progress {
	activities := make([]string, 0, len(progress.CompletedActivities))
	for id := range progress.CompletedActivities {
		activities = append(activities, id)
	}

	activitiesJson, _ := json.Marshal(activities)

	return dbModel.Progress{
		PlayerID:   playerID,
		Coins:      progress.Coins,
		Level:      progress.Level,
		Experience: progress.Experience,
		Activities: activitiesJson,
	}
}
