package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// Journal records one game run in SQLite: the seats, and every narrated action with
// its visibility. A nil *Journal accepts every call and records nothing.
type Journal struct {
	db *sqlx.DB
}

// GameAction represents any action taken during the game (night or day phase)
// Visibility determines who can see this action:
//   - "public": everyone can see
//   - "team:werewolf": only werewolf team can see
//   - "actor": only the actor can see
type GameAction struct {
	GameID      string `db:"game_id"`
	Day         int    `db:"day"`
	Phase       string `db:"phase"` // "setup", "night", "day" or "end"
	ActorSeat   int    `db:"actor_seat"`
	ActionType  string `db:"action_type"`
	TargetSeat  *int   `db:"target_seat"`
	Visibility  string `db:"visibility"`
	Description string `db:"description"`
}

// Action types
const (
	ActionAnnouncement   = "announcement"
	ActionWerewolfVote   = "werewolf_vote"
	ActionWerewolfKill   = "werewolf_kill"
	ActionWerewolfPlan   = "werewolf_plan"
	ActionSeerInspect    = "seer_inspect"
	ActionWitchHeal      = "witch_heal"
	ActionWitchPoison    = "witch_poison"
	ActionWitchPass      = "witch_pass"
	ActionNightDeath     = "night_death"
	ActionLastWords      = "last_words"
	ActionHunterShoot    = "hunter_shoot"
	ActionBadgePass      = "badge_pass"
	ActionBadgeTear      = "badge_tear"
	ActionCandidacy      = "sheriff_candidacy"
	ActionCampaignSpeech = "sheriff_campaign"
	ActionWithdraw       = "sheriff_withdraw"
	ActionSheriffVote    = "sheriff_vote"
	ActionSheriffElected = "sheriff_elected"
	ActionSpeech         = "speech"
	ActionDayVote        = "day_vote"
	ActionElimination    = "elimination"
	ActionStory          = "story"
	ActionGameOver       = "game_over"
)

// Visibility types
const (
	VisibilityPublic       = "public"
	VisibilityTeamWerewolf = "team:werewolf"
	VisibilityActor        = "actor"
)

// canSeeAction determines if a seat can see a specific action based on visibility rules
func canSeeAction(action GameAction, viewer *Player) bool {
	switch action.Visibility {
	case VisibilityPublic:
		return true
	case VisibilityTeamWerewolf:
		return viewer.IsWerewolf()
	case VisibilityActor:
		return viewer.ID == action.ActorSeat
	default:
		return false
	}
}

// SeatRecord is a seat row as stored in the journal.
type SeatRecord struct {
	Seat       int    `db:"seat"`
	Name       string `db:"name"`
	Role       string `db:"role"`
	Team       string `db:"team"`
	IsHuman    bool   `db:"is_human"`
	IsAlive    bool   `db:"is_alive"`
	DeathCause string `db:"death_cause"`
}

const journalSchema = `
	CREATE TABLE IF NOT EXISTS game (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'setup',
		day INTEGER NOT NULL DEFAULT 0,
		winner TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS game_player (
		game_id TEXT NOT NULL,
		seat INTEGER NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		team TEXT NOT NULL,
		is_human INTEGER NOT NULL DEFAULT 0,
		is_alive INTEGER NOT NULL DEFAULT 1,
		death_cause TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (game_id) REFERENCES game(id),
		UNIQUE(game_id, seat)
	);
	CREATE TABLE IF NOT EXISTS game_action (
		game_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		phase TEXT NOT NULL,
		actor_seat INTEGER NOT NULL DEFAULT 0,
		action_type TEXT NOT NULL,
		target_seat INTEGER,
		visibility TEXT NOT NULL DEFAULT 'public',
		description TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (game_id) REFERENCES game(id)
	);
	CREATE INDEX IF NOT EXISTS idx_game_action_lookup ON game_action(game_id, visibility);
`

// openJournal connects to the DSN and creates the schema.
func openJournal(dsn string) (*Journal, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect journal: %w", err)
	}
	// one connection keeps an in-memory database alive and serializes writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	log.Debug().Str("dsn", dsn).Msg("journal initialized")
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}

// StartGame stores the game and its seats.
func (j *Journal) StartGame(gameID string, players []*Player) error {
	if j == nil {
		return nil
	}
	tx, err := j.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT INTO game (id, status) VALUES (?, 'setup')", gameID); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	for _, p := range players {
		_, err := tx.Exec(`INSERT INTO game_player (game_id, seat, name, role, team, is_human)
			VALUES (?, ?, ?, ?, ?, ?)`, gameID, p.ID, p.Name, string(p.Role.Type), string(p.Team()), p.IsHuman)
		if err != nil {
			return fmt.Errorf("insert seat %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// UpdateSeat stores a seat's life status.
func (j *Journal) UpdateSeat(gameID string, p *Player) error {
	if j == nil {
		return nil
	}
	_, err := j.db.Exec("UPDATE game_player SET is_alive = ?, death_cause = ? WHERE game_id = ? AND seat = ?",
		p.IsAlive, string(p.DeathCause), gameID, p.ID)
	return err
}

// SetStatus stores the game phase, day and (once decided) the winner.
func (j *Journal) SetStatus(gameID, status string, day int, winner Camp) error {
	if j == nil {
		return nil
	}
	_, err := j.db.Exec("UPDATE game SET status = ?, day = ?, winner = ? WHERE id = ?", status, day, string(winner), gameID)
	return err
}

// Record appends one action.
func (j *Journal) Record(a GameAction) error {
	if j == nil {
		return nil
	}
	_, err := j.db.NamedExec(`
		INSERT INTO game_action (game_id, day, phase, actor_seat, action_type, target_seat, visibility, description)
		VALUES (:game_id, :day, :phase, :actor_seat, :action_type, :target_seat, :visibility, :description)`, a)
	return err
}

// PublicHistory returns the descriptions of every public action, oldest first.
func (j *Journal) PublicHistory(gameID string) ([]string, error) {
	if j == nil {
		return nil, nil
	}
	var descriptions []string
	err := j.db.Select(&descriptions, `
		SELECT description FROM game_action
		WHERE game_id = ? AND description != '' AND visibility = ?
		ORDER BY rowid ASC`, gameID, VisibilityPublic)
	return descriptions, err
}

// VoteCounts returns how many recorded ballots of the given action type named each seat.
func (j *Journal) VoteCounts(gameID, actionType string) (map[int]int, error) {
	if j == nil {
		return nil, nil
	}
	var rows []struct {
		Seat  int `db:"seat"`
		Count int `db:"count"`
	}
	err := j.db.Select(&rows, `
		SELECT target_seat AS seat, COUNT(*) AS count FROM game_action
		WHERE game_id = ? AND action_type = ? AND target_seat IS NOT NULL
		GROUP BY target_seat`, gameID, actionType)
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int, len(rows))
	for _, r := range rows {
		counts[r.Seat] = r.Count
	}
	return counts, nil
}

// Reveal returns every seat with its final role and status, in seat order.
func (j *Journal) Reveal(gameID string) ([]SeatRecord, error) {
	if j == nil {
		return nil, nil
	}
	var seats []SeatRecord
	err := j.db.Select(&seats, `
		SELECT seat, name, role, team, is_human, is_alive, death_cause
		FROM game_player WHERE game_id = ? ORDER BY seat`, gameID)
	return seats, err
}

// Dump writes every table, row by row.
func (j *Journal) Dump(w io.Writer) error {
	if j == nil {
		return nil
	}
	var tables []string
	if err := j.db.Select(&tables, "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name"); err != nil {
		return err
	}

	for _, table := range tables {
		fmt.Fprintf(w, "--- Table: %s ---\n", table)

		rows, err := j.db.Queryx("SELECT * FROM " + table)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n\n", err)
			continue
		}
		cols, _ := rows.Columns()
		fmt.Fprintf(w, "Columns: %s\n", strings.Join(cols, " | "))

		rowCount := 0
		for rows.Next() {
			rowCount++
			values, err := rows.SliceScan()
			if err != nil {
				fmt.Fprintf(w, "Error scanning row: %v\n", err)
				continue
			}
			rowStr := make([]string, len(values))
			for i, v := range values {
				switch val := v.(type) {
				case nil:
					rowStr[i] = "NULL"
				case []byte:
					rowStr[i] = string(val)
				default:
					rowStr[i] = fmt.Sprintf("%v", val)
				}
			}
			fmt.Fprintf(w, "Row %d: %s\n", rowCount, strings.Join(rowStr, " | "))
		}
		rows.Close()

		if rowCount == 0 {
			fmt.Fprintf(w, "(empty)\n")
		}
		fmt.Fprintln(w)
	}
	return nil
}
