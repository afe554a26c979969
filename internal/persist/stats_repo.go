package persist

import (
	"context"
)

// RoundRow records one finished round.
type RoundRow struct {
	ServerID      int
	DurationTicks int
	HunterCount   int
	Tags          int
}

// AbilityUseRow records one successful ability use.
type AbilityUseRow struct {
	RoundID  int64
	ServerID int
	ActorID  uint64
	ItemID   string
	GameTick int64
}

// StatsRepo persists round results and ability usage for balance analysis.
type StatsRepo struct {
	db *DB
}

func NewStatsRepo(db *DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// InsertRound stores a finished round and returns its row ID.
func (r *StatsRepo) InsertRound(ctx context.Context, row RoundRow) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO rounds (server_id, duration_ticks, hunter_count, tags)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		row.ServerID, row.DurationTicks, row.HunterCount, row.Tags,
	).Scan(&id)
	return id, err
}

// BulkInsertAbilityUses stores a batch of ability-use records in one
// transaction. An empty batch is a no-op.
func (r *StatsRepo) BulkInsertAbilityUses(ctx context.Context, rows []AbilityUseRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		if _, err := tx.Exec(ctx,
			`INSERT INTO ability_uses (round_id, server_id, actor_id, item_id, game_tick)
			 VALUES ($1, $2, $3, $4, $5)`,
			nullableRoundID(row.RoundID), row.ServerID, int64(row.ActorID), row.ItemID, row.GameTick,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// nullableRoundID maps the zero value to SQL NULL: uses outside a round
// (lobby testing) carry no round reference.
func nullableRoundID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
