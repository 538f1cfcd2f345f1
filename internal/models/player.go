package models

import (
	"database/sql"
	"encoding/xml"
	"time"
)

// Player represents a rostered player for one season
type Player struct {
	ID         int            `db:"id"`
	PlayerCode string         `db:"player_code"`
	TeamID     int            `db:"team_id"`
	Name       string         `db:"name"`
	Position   sql.NullString `db:"position"`
	Season     string         `db:"season"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// RosterEntry pairs a player's external code with its club code, for
// cache refreshes that walk the whole roster
type RosterEntry struct {
	PlayerCode string
	TeamCode   string
}

// PlayersResponse is the root collection of the players feed
type PlayersResponse struct {
	XMLName xml.Name      `xml:"players"`
	Players []PlayerInput `xml:"player"`
}

// PlayerInput is a single roster record as the feed delivers it
type PlayerInput struct {
	Code     string `xml:"code"`
	Name     string `xml:"name"`
	Position string `xml:"position"`
	TeamCode string `xml:"teamcode"`
	Season   string `xml:"season"`
}

// Validate checks the record carries every required field
func (pi *PlayerInput) Validate() error {
	if pi.Code == "" {
		return missingField("player", "code")
	}
	if pi.Name == "" {
		return missingField("player", "name")
	}
	if pi.TeamCode == "" {
		return missingField("player", "teamcode")
	}
	if pi.Season == "" {
		return missingField("player", "season")
	}
	return nil
}

// ToPlayer converts PlayerInput (from the feed) to the Player model.
// The team reference must already be resolved to a database id.
func (pi *PlayerInput) ToPlayer(teamID int) *Player {
	player := &Player{
		PlayerCode: pi.Code,
		TeamID:     teamID,
		Name:       pi.Name,
		Season:     pi.Season,
	}

	if pi.Position != "" {
		player.Position = sql.NullString{String: pi.Position, Valid: true}
	}

	return player
}
