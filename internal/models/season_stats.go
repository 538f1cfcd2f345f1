package models

import (
	"encoding/xml"
	"time"
)

// SeasonStats represents season aggregate statistics for one player
type SeasonStats struct {
	ID          int    `db:"id"`
	PlayerID    int    `db:"player_id"`
	Season      string `db:"season"`
	GamesPlayed int    `db:"games_played"`

	StatLine

	PIR int `db:"pir"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SeasonStatsResponse is the root collection of the season stats feed.
// The single-player playerstats endpoint shares the same shape.
type SeasonStatsResponse struct {
	XMLName xml.Name           `xml:"seasonstats"`
	Stats   []SeasonStatsInput `xml:"playerstat"`
}

// SeasonStatsInput is a season aggregate record as the feed delivers
// it. Absent numeric fields decode to zero, which is the required
// default.
type SeasonStatsInput struct {
	PlayerCode  string `xml:"playercode"`
	Season      string `xml:"season"`
	GamesPlayed int    `xml:"gamesplayed"`

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
func (si *SeasonStatsInput) Validate() error {
	if si.PlayerCode == "" {
		return missingField("seasonstats", "playercode")
	}
	if si.Season == "" {
		return missingField("seasonstats", "season")
	}
	return nil
}

// statLine assembles the shared stat counts
func (si *SeasonStatsInput) statLine() StatLine {
	return StatLine{
		Points:                 si.Points,
		Rebounds:               si.Rebounds,
		Assists:                si.Assists,
		Steals:                 si.Steals,
		Blocks:                 si.Blocks,
		Turnovers:              si.Turnovers,
		FoulsCommitted:         si.FoulsCommitted,
		TwoPointersMade:        si.TwoPointersMade,
		TwoPointersAttempted:   si.TwoPointersAttempted,
		ThreePointersMade:      si.ThreePointersMade,
		ThreePointersAttempted: si.ThreePointersAttempted,
		FreeThrowsMade:         si.FreeThrowsMade,
		FreeThrowsAttempted:    si.FreeThrowsAttempted,
	}
}

// ToSeasonStats converts SeasonStatsInput (from the feed) to the
// SeasonStats model. The player reference must already be resolved to
// a database id. PIR is always computed, never sourced from the feed.
func (si *SeasonStatsInput) ToSeasonStats(playerID int) *SeasonStats {
	line := si.statLine()
	return &SeasonStats{
		PlayerID:    playerID,
		Season:      si.Season,
		GamesPlayed: si.GamesPlayed,
		StatLine:    line,
		PIR:         line.PIR(),
	}
}

// PlayerSeasonPayload is the cache representation of one player's
// season aggregates, serialized as JSON inside a season cache entry.
type PlayerSeasonPayload struct {
	PlayerCode  string `json:"player_code"`
	TeamCode    string `json:"team_code,omitempty"`
	Season      string `json:"season"`
	GamesPlayed int    `json:"games_played"`

	Points         int `json:"points"`
	Rebounds       int `json:"rebounds"`
	Assists        int `json:"assists"`
	Steals         int `json:"steals"`
	Blocks         int `json:"blocks"`
	Turnovers      int `json:"turnovers"`
	FoulsCommitted int `json:"fouls_committed"`

	TwoPointersMade        int `json:"two_pointers_made"`
	TwoPointersAttempted   int `json:"two_pointers_attempted"`
	ThreePointersMade      int `json:"three_pointers_made"`
	ThreePointersAttempted int `json:"three_pointers_attempted"`
	FreeThrowsMade         int `json:"free_throws_made"`
	FreeThrowsAttempted    int `json:"free_throws_attempted"`

	PIR int `json:"pir"`
}

// ToPayload converts SeasonStatsInput to the cache payload, stamping
// the owning team code and the computed PIR
func (si *SeasonStatsInput) ToPayload(teamCode string) *PlayerSeasonPayload {
	line := si.statLine()
	return &PlayerSeasonPayload{
		PlayerCode:             si.PlayerCode,
		TeamCode:               teamCode,
		Season:                 si.Season,
		GamesPlayed:            si.GamesPlayed,
		Points:                 si.Points,
		Rebounds:               si.Rebounds,
		Assists:                si.Assists,
		Steals:                 si.Steals,
		Blocks:                 si.Blocks,
		Turnovers:              si.Turnovers,
		FoulsCommitted:         si.FoulsCommitted,
		TwoPointersMade:        si.TwoPointersMade,
		TwoPointersAttempted:   si.TwoPointersAttempted,
		ThreePointersMade:      si.ThreePointersMade,
		ThreePointersAttempted: si.ThreePointersAttempted,
		FreeThrowsMade:         si.FreeThrowsMade,
		FreeThrowsAttempted:    si.FreeThrowsAttempted,
		PIR:                    line.PIR(),
	}
}

// StatValue returns the payload field named by a query, or false when
// the field is unknown
func (p *PlayerSeasonPayload) StatValue(field string) (int, bool) {
	switch field {
	case "points":
		return p.Points, true
	case "rebounds":
		return p.Rebounds, true
	case "assists":
		return p.Assists, true
	case "steals":
		return p.Steals, true
	case "blocks":
		return p.Blocks, true
	case "turnovers":
		return p.Turnovers, true
	case "fouls_committed":
		return p.FoulsCommitted, true
	case "games_played":
		return p.GamesPlayed, true
	case "pir":
		return p.PIR, true
	}
	return 0, false
}
