package workers

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StartWitherWorker starts a background routine that marks neglected goals
// as withered. Check-health does the same sweep on read; this keeps
// statuses fresh for users who have not opened the app in a while.
// Database mode only, the memory backend is swept on read.
func StartWitherWorker(db *pgxpool.Pool) {
	ticker := time.NewTicker(1 * time.Hour)

	go func() {
		for range ticker.C {
			witherNeglectedGoals(db)
		}
	}()
}

func witherNeglectedGoals(db *pgxpool.Pool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tag, err := db.Exec(ctx, `
		UPDATE goals
		SET status = 'withered'
		WHERE status = 'active'
		  AND last_watered < NOW() - INTERVAL '168 hours'
	`)
	if err != nil {
		log.Printf("Wither sweep failed: %v", err)
		return
	}

	if n := tag.RowsAffected(); n > 0 {
		log.Printf("Wither sweep marked %d goals as withered", n)
	}
}
