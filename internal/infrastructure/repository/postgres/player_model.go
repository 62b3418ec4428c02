package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/football-stats/internal/domain/player"
)

type playerTableModel struct {
	ID              int64     `db:"player_id,readonly"`
	FirstName       string    `db:"first_name"`
	LastName        string    `db:"last_name"`
	Age             int       `db:"age"`
	Nationality     string    `db:"nationality"`
	Position        string    `db:"position"`
	Height          float64   `db:"height"`
	Weight          float64   `db:"weight"`
	OverallRating   int       `db:"overall_rating"`
	PotentialRating int       `db:"potential_rating"`
	Pace            int       `db:"pace"`
	Shooting        int       `db:"shooting"`
	Passing         int       `db:"passing"`
	Dribbling       int       `db:"dribbling"`
	Defending       int       `db:"defending"`
	Physical        int       `db:"physical"`
	CreatedAt       time.Time `db:"created_at"`
}

type additionalInfoTableModel struct {
	PlayerID        int64           `db:"player_id"`
	Birthplace      string          `db:"birthplace"`
	CurrentClub     string          `db:"current_club"`
	ClubJoinDate    sql.NullTime    `db:"club_join_date"`
	ContractEndDate sql.NullTime    `db:"contract_end_date"`
	MarketValue     sql.NullFloat64 `db:"market_value"`
	CreatedAt       time.Time       `db:"created_at"`
}

// profileRowModel is one row of players LEFT JOIN players_add_info. The info
// columns are aliased with an info_ prefix and are all NULL when no row matched.
type profileRowModel struct {
	playerTableModel
	InfoPlayerID        sql.NullInt64   `db:"info_player_id"`
	InfoBirthplace      sql.NullString  `db:"info_birthplace"`
	InfoCurrentClub     sql.NullString  `db:"info_current_club"`
	InfoClubJoinDate    sql.NullTime    `db:"info_club_join_date"`
	InfoContractEndDate sql.NullTime    `db:"info_contract_end_date"`
	InfoMarketValue     sql.NullFloat64 `db:"info_market_value"`
	InfoCreatedAt       sql.NullTime    `db:"info_created_at"`
}

func playerModelFromDomain(p player.Player) playerTableModel {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return playerTableModel{
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Age:             p.Age,
		Nationality:     p.Nationality,
		Position:        p.Position,
		Height:          p.Height,
		Weight:          p.Weight,
		OverallRating:   p.OverallRating,
		PotentialRating: p.PotentialRating,
		Pace:            p.Pace,
		Shooting:        p.Shooting,
		Passing:         p.Passing,
		Dribbling:       p.Dribbling,
		Defending:       p.Defending,
		Physical:        p.Physical,
		CreatedAt:       createdAt,
	}
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:              m.ID,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Age:             m.Age,
		Nationality:     m.Nationality,
		Position:        m.Position,
		Height:          m.Height,
		Weight:          m.Weight,
		OverallRating:   m.OverallRating,
		PotentialRating: m.PotentialRating,
		Pace:            m.Pace,
		Shooting:        m.Shooting,
		Passing:         m.Passing,
		Dribbling:       m.Dribbling,
		Defending:       m.Defending,
		Physical:        m.Physical,
		CreatedAt:       m.CreatedAt,
	}
}

func additionalInfoModelFromDomain(info player.AdditionalInfo) additionalInfoTableModel {
	createdAt := info.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return additionalInfoTableModel{
		PlayerID:        info.PlayerID,
		Birthplace:      info.Birthplace,
		CurrentClub:     info.CurrentClub,
		ClubJoinDate:    timePtrToNull(info.ClubJoinDate),
		ContractEndDate: timePtrToNull(info.ContractEndDate),
		MarketValue:     sql.NullFloat64{Float64: info.MarketValue, Valid: true},
		CreatedAt:       createdAt,
	}
}

func (m additionalInfoTableModel) toDomain() player.AdditionalInfo {
	return player.AdditionalInfo{
		PlayerID:        m.PlayerID,
		Birthplace:      m.Birthplace,
		CurrentClub:     m.CurrentClub,
		ClubJoinDate:    nullTimeToPtr(m.ClubJoinDate),
		ContractEndDate: nullTimeToPtr(m.ContractEndDate),
		MarketValue:     m.MarketValue.Float64,
		CreatedAt:       m.CreatedAt,
	}
}

func (m profileRowModel) toDomain() player.Profile {
	profile := player.Profile{Player: m.playerTableModel.toDomain()}
	if !m.InfoPlayerID.Valid {
		return profile
	}

	profile.AdditionalInfo = &player.AdditionalInfo{
		PlayerID:        m.InfoPlayerID.Int64,
		Birthplace:      m.InfoBirthplace.String,
		CurrentClub:     m.InfoCurrentClub.String,
		ClubJoinDate:    nullTimeToPtr(m.InfoClubJoinDate),
		ContractEndDate: nullTimeToPtr(m.InfoContractEndDate),
		MarketValue:     m.InfoMarketValue.Float64,
		CreatedAt:       m.InfoCreatedAt.Time,
	}
	return profile
}
