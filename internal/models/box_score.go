package models

import (
	"database/sql"
	"encoding/xml"
	"time"
)

// BoxScore represents one player's line in one game
type BoxScore struct {
	ID       int            `db:"id"`
	GameID   int            `db:"game_id"`
	PlayerID int            `db:"player_id"`
	TeamID   int            `db:"team_id"`
	Starter  bool           `db:"starter"`
	Minutes  sql.NullString `db:"minutes"`

	StatLine

	PIR int `db:"pir"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// BoxScoresResponse is the root collection of the box scores feed
type BoxScoresResponse struct {
	XMLName xml.Name        `xml:"boxscores"`
	Stats   []BoxScoreInput `xml:"stat"`
}

// BoxScoreInput is a per-game stat line as the feed delivers it.
// Absent numeric fields decode to zero, which is the required default.
type BoxScoreInput struct {
	GameCode   int    `xml:"gamecode"`
	PlayerCode string `xml:"playercode"`
	TeamCode   string `xml:"teamcode"`
	Starter    bool   `xml:"starter"`
	Minutes    string `xml:"minutes"`

	Points         int `xml:"points"`
	Rebounds       int `xml:"rebounds"`
	Assists        int `xml:"assists"`
	Steals         int `xml:"steals"`
	Blocks         int `xml:"blocks"`
	Turnovers      int `xml:"turnovers"`
	FoulsCommitted int `xml:"foulscommitted"`

	TwoPointersMade        int `xml:"twopointersmade"`
	TwoPointersAttempted   int `xml:"twopointersattempted"`
	ThreePointersMade      int `xml:"threepointersmade"`
	ThreePointersAttempted int `xml:"threepointersattempted"`
	FreeThrowsMade         int `xml:"freethrowsmade"`
	FreeThrowsAttempted    int `xml:"freethrowsattempted"`
}

// Validate checks the record carries every required field
func (bi *BoxScoreInput) Validate() error {
	if bi.GameCode == 0 {
		return missingField("boxscore", "gamecode")
	}
	if bi.PlayerCode == "" {
		return missingField("boxscore", "playercode")
	}
	if bi.TeamCode == "" {
		return missingField("boxscore", "teamcode")
	}
	return nil
}

// ToBoxScore converts BoxScoreInput (from the feed) to the BoxScore
// model. Game, player and team references must already be resolved to
// database ids. PIR is computed, never sourced from the feed.
func (bi *BoxScoreInput) ToBoxScore(gameID, playerID, teamID int) *BoxScore {
	line := StatLine{
		Points:                 bi.Points,
		Rebounds:               bi.Rebounds,
		Assists:                bi.Assists,
		Steals:                 bi.Steals,
		Blocks:                 bi.Blocks,
		Turnovers:              bi.Turnovers,
		FoulsCommitted:         bi.FoulsCommitted,
		TwoPointersMade:        bi.TwoPointersMade,
		TwoPointersAttempted:   bi.TwoPointersAttempted,
		ThreePointersMade:      bi.ThreePointersMade,
		ThreePointersAttempted: bi.ThreePointersAttempted,
		FreeThrowsMade:         bi.FreeThrowsMade,
		FreeThrowsAttempted:    bi.FreeThrowsAttempted,
	}

	boxScore := &BoxScore{
		GameID:   gameID,
		PlayerID: playerID,
		TeamID:   teamID,
		Starter:  bi.Starter,
		StatLine: line,
		PIR:      line.PIR(),
	}

	if bi.Minutes != "" {
		boxScore.Minutes = sql.NullString{String: bi.Minutes, Valid: true}
	}

	return boxScore
}
