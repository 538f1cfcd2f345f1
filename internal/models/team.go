package models

import (
	"database/sql"
	"encoding/xml"
	"time"
)

// Team represents a Euroleague club
type Team struct {
	ID        int            `db:"id"`
	Code      string         `db:"code"`
	Name      string         `db:"name"`
	LogoURL   sql.NullString `db:"logo_url"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// TeamsResponse is the root collection of the teams feed
type TeamsResponse struct {
	XMLName xml.Name    `xml:"teams"`
	Teams   []TeamInput `xml:"team"`
}

// TeamInput is a single club record as the feed delivers it
type TeamInput struct {
	Code string `xml:"code"`
	Name string `xml:"name"`
	Logo string `xml:"logo"`
}

// Validate checks the record carries every required field
func (ti *TeamInput) Validate() error {
	if ti.Code == "" {
		return missingField("team", "code")
	}
	if ti.Name == "" {
		return missingField("team", "name")
	}
	return nil
}

// ToTeam converts TeamInput (from the feed) to the Team model
func (ti *TeamInput) ToTeam() *Team {
	team := &Team{
		Code: ti.Code,
		Name: ti.Name,
	}

	if ti.Logo != "" {
		team.LogoURL = sql.NullString{String: ti.Logo, Valid: true}
	}

	return team
}
