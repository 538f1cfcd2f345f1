package models

import (
	"database/sql"
	"encoding/xml"
	"time"
)

// gameDateLayout is the date format the feed uses for game dates
const gameDateLayout = "2006-01-02"

// Game represents a scheduled or played game
type Game struct {
	ID         int           `db:"id"`
	GameCode   int           `db:"game_code"`
	Season     string        `db:"season"`
	Round      int           `db:"round"`
	GameDate   time.Time     `db:"game_date"`
	HomeTeamID int           `db:"home_team_id"`
	AwayTeamID int           `db:"away_team_id"`
	HomeScore  sql.NullInt32 `db:"home_score"`
	AwayScore  sql.NullInt32 `db:"away_score"`
	Played     bool          `db:"played"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

// GamesResponse is the root collection of the games feed
type GamesResponse struct {
	XMLName xml.Name    `xml:"games"`
	Games   []GameInput `xml:"game"`
}

// GameInput is a single game record as the feed delivers it
type GameInput struct {
	Code      int    `xml:"code"`
	Season    string `xml:"season"`
	Round     int    `xml:"round"`
	Date      string `xml:"date"`
	HomeCode  string `xml:"homecode"`
	AwayCode  string `xml:"awaycode"`
	HomeScore *int   `xml:"homescore"`
	AwayScore *int   `xml:"awayscore"`
	Played    bool   `xml:"played"`
}

// Validate checks the record carries every required field and that the
// game date parses
func (gi *GameInput) Validate() error {
	if gi.Code == 0 {
		return missingField("game", "code")
	}
	if gi.Season == "" {
		return missingField("game", "season")
	}
	if gi.HomeCode == "" {
		return missingField("game", "homecode")
	}
	if gi.AwayCode == "" {
		return missingField("game", "awaycode")
	}
	if gi.Date == "" {
		return missingField("game", "date")
	}
	if _, err := time.Parse(gameDateLayout, gi.Date); err != nil {
		return &ValidationError{Entity: "game", Field: "date", Reason: "unparseable date: " + gi.Date}
	}
	return nil
}

// ToGame converts GameInput (from the feed) to the Game model. Team
// references must already be resolved to database ids. Validate must
// have been called first; the date is assumed parseable here.
func (gi *GameInput) ToGame(homeTeamID, awayTeamID int) *Game {
	date, _ := time.Parse(gameDateLayout, gi.Date)

	game := &Game{
		GameCode:   gi.Code,
		Season:     gi.Season,
		Round:      gi.Round,
		GameDate:   date,
		HomeTeamID: homeTeamID,
		AwayTeamID: awayTeamID,
		Played:     gi.Played,
	}

	if gi.HomeScore != nil {
		game.HomeScore = sql.NullInt32{Int32: int32(*gi.HomeScore), Valid: true}
	}
	if gi.AwayScore != nil {
		game.AwayScore = sql.NullInt32{Int32: int32(*gi.AwayScore), Valid: true}
	}

	return game
}
