package models

import "encoding/xml"

// StandingsResponse is the root collection of the standings feed
type StandingsResponse struct {
	XMLName   xml.Name        `xml:"standings"`
	Standings []StandingInput `xml:"standing"`
}

// StandingInput is one league-table row as the feed delivers it.
// Standings are served straight from the cache tier and never
// persisted, so there is no separate database model.
type StandingInput struct {
	TeamCode      string `xml:"teamcode" json:"team_code"`
	Position      int    `xml:"position" json:"position"`
	Wins          int    `xml:"wins" json:"wins"`
	Losses        int    `xml:"losses" json:"losses"`
	PointsFor     int    `xml:"pointsfor" json:"points_for"`
	PointsAgainst int    `xml:"pointsagainst" json:"points_against"`
}

// Validate checks the record carries every required field
func (si *StandingInput) Validate() error {
	if si.TeamCode == "" {
		return missingField("standing", "teamcode")
	}
	if si.Position == 0 {
		return missingField("standing", "position")
	}
	return nil
}

// TeamStatsResponse is the root collection of the team stats feed
type TeamStatsResponse struct {
	XMLName xml.Name         `xml:"teamstats"`
	Stats   []TeamStatsInput `xml:"teamstat"`
}

// TeamStatsInput is a team-level season aggregate as the feed delivers
// it. Consumed by the manualfetch CLI for operator inspection.
type TeamStatsInput struct {
	TeamCode    string `xml:"teamcode"`
	Season      string `xml:"season"`
	GamesPlayed int    `xml:"gamesplayed"`
	Points      int    `xml:"points"`
	Rebounds    int    `xml:"rebounds"`
	Assists     int    `xml:"assists"`
	Turnovers   int    `xml:"turnovers"`
}

// Validate checks the record carries every required field
func (ti *TeamStatsInput) Validate() error {
	if ti.TeamCode == "" {
		return missingField("teamstats", "teamcode")
	}
	if ti.Season == "" {
		return missingField("teamstats", "season")
	}
	return nil
}
