package player

import (
	"fmt"
	"time"
)

const (
	MinRating = 0
	MaxRating = 100
)

// Player is a row of the players table.
type Player struct {
	ID              int64
	FirstName       string
	LastName        string
	Age             int
	Nationality     string
	Position        string
	Height          float64
	Weight          float64
	OverallRating   int
	PotentialRating int
	Pace            int
	Shooting        int
	Passing         int
	Dribbling       int
	Defending       int
	Physical        int
	CreatedAt       time.Time
}

func (p Player) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

func (p Player) Validate() error {
	if p.FirstName == "" {
		return fmt.Errorf("player first name is required")
	}
	if p.LastName == "" {
		return fmt.Errorf("player last name is required")
	}
	if p.Age <= 0 {
		return fmt.Errorf("player age must be greater than zero")
	}
	if p.Position == "" {
		return fmt.Errorf("player position is required")
	}
	if p.Height < 0 {
		return fmt.Errorf("player height cannot be negative")
	}
	if p.Weight < 0 {
		return fmt.Errorf("player weight cannot be negative")
	}

	ratings := []struct {
		name  string
		value int
	}{
		{"overall_rating", p.OverallRating},
		{"potential_rating", p.PotentialRating},
		{"pace", p.Pace},
		{"shooting", p.Shooting},
		{"passing", p.Passing},
		{"dribbling", p.Dribbling},
		{"defending", p.Defending},
		{"physical", p.Physical},
	}
	for _, r := range ratings {
		if r.value < MinRating || r.value > MaxRating {
			return fmt.Errorf("player %s must be between %d and %d", r.name, MinRating, MaxRating)
		}
	}

	return nil
}

// AdditionalInfo is the one-to-one extension row in players_add_info.
type AdditionalInfo struct {
	PlayerID        int64
	Birthplace      string
	CurrentClub     string
	ClubJoinDate    *time.Time
	ContractEndDate *time.Time
	MarketValue     float64
	CreatedAt       time.Time
}

// Validate checks the fields and that the info is bound to a player.
func (i AdditionalInfo) Validate() error {
	if i.PlayerID <= 0 {
		return fmt.Errorf("additional info player id is required")
	}
	return i.ValidateFields()
}

// ValidateFields checks everything except the owning player, for info that is
// about to be attached to a player not yet stored.
func (i AdditionalInfo) ValidateFields() error {
	if i.MarketValue < 0 {
		return fmt.Errorf("additional info market value cannot be negative")
	}
	if i.ClubJoinDate != nil && i.ContractEndDate != nil && i.ContractEndDate.Before(*i.ClubJoinDate) {
		return fmt.Errorf("contract end date must not be before club join date")
	}

	return nil
}

// Profile is a player joined with its additional info, which may be absent.
type Profile struct {
	Player         Player
	AdditionalInfo *AdditionalInfo
}
