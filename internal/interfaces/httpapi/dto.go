package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
	"github.com/riskibarqy/football-stats/internal/domain/player"
	"github.com/riskibarqy/football-stats/internal/usecase"
)

const dateLayout = "2006-01-02"

type askQuestionRequest struct {
	Question string `json:"question" validate:"required"`
}

type askQuestionBatchRequest struct {
	Questions []string `json:"questions" validate:"required,min=1,dive,required"`
}

type answerDTO struct {
	InvocationID string `json:"invocation_id"`
	Question     string `json:"question"`
	SQL          string `json:"sql"`
	RowCount     int    `json:"row_count"`
	Truncated    bool   `json:"truncated"`
	Answer       string `json:"answer"`
}

type batchAnswerDTO struct {
	InvocationID string         `json:"invocation_id,omitempty"`
	Question     string         `json:"question"`
	State        string         `json:"state"`
	SQL          string         `json:"sql,omitempty"`
	RowCount     int            `json:"row_count"`
	Truncated    bool           `json:"truncated"`
	Answer       string         `json:"answer,omitempty"`
	Error        *batchErrorDTO `json:"error,omitempty"`
}

type batchErrorDTO struct {
	Stage   string `json:"stage,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type createPlayerRequest struct {
	FirstName       string                    `json:"first_name" validate:"required,max=100"`
	LastName        string                    `json:"last_name" validate:"required,max=100"`
	Age             int                       `json:"age" validate:"required,gt=0,lt=100"`
	Nationality     string                    `json:"nationality" validate:"omitempty,max=100"`
	Position        string                    `json:"position" validate:"required,max=50"`
	Height          float64                   `json:"height" validate:"gte=0"`
	Weight          float64                   `json:"weight" validate:"gte=0"`
	OverallRating   int                       `json:"overall_rating" validate:"gte=0,lte=100"`
	PotentialRating int                       `json:"potential_rating" validate:"gte=0,lte=100"`
	Pace            int                       `json:"pace" validate:"gte=0,lte=100"`
	Shooting        int                       `json:"shooting" validate:"gte=0,lte=100"`
	Passing         int                       `json:"passing" validate:"gte=0,lte=100"`
	Dribbling       int                       `json:"dribbling" validate:"gte=0,lte=100"`
	Defending       int                       `json:"defending" validate:"gte=0,lte=100"`
	Physical        int                       `json:"physical" validate:"gte=0,lte=100"`
	AdditionalInfo  *additionalInfoRequestDTO `json:"additional_info" validate:"omitempty"`
}

type additionalInfoRequestDTO struct {
	Birthplace      string  `json:"birthplace" validate:"omitempty,max=100"`
	CurrentClub     string  `json:"current_club" validate:"omitempty,max=100"`
	ClubJoinDate    string  `json:"club_join_date" validate:"omitempty,datetime=2006-01-02"`
	ContractEndDate string  `json:"contract_end_date" validate:"omitempty,datetime=2006-01-02"`
	MarketValue     float64 `json:"market_value" validate:"gte=0"`
}

type createPlayerResponse struct {
	PlayerID int64 `json:"player_id"`
}

type playerDTO struct {
	ID              int64     `json:"player_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Age             int       `json:"age"`
	Nationality     string    `json:"nationality"`
	Position        string    `json:"position"`
	Height          float64   `json:"height"`
	Weight          float64   `json:"weight"`
	OverallRating   int       `json:"overall_rating"`
	PotentialRating int       `json:"potential_rating"`
	Pace            int       `json:"pace"`
	Shooting        int       `json:"shooting"`
	Passing         int       `json:"passing"`
	Dribbling       int       `json:"dribbling"`
	Defending       int       `json:"defending"`
	Physical        int       `json:"physical"`
	CreatedAt       time.Time `json:"created_at"`
}

type additionalInfoDTO struct {
	Birthplace      string  `json:"birthplace"`
	CurrentClub     string  `json:"current_club"`
	ClubJoinDate    string  `json:"club_join_date,omitempty"`
	ContractEndDate string  `json:"contract_end_date,omitempty"`
	MarketValue     float64 `json:"market_value"`
}

type profileDTO struct {
	playerDTO
	AdditionalInfo *additionalInfoDTO `json:"additional_info"`
}

func answerToDTO(a usecase.Answer) answerDTO {
	return answerDTO{
		InvocationID: a.InvocationID,
		Question:     a.Question,
		SQL:          a.SQL,
		RowCount:     a.RowCount,
		Truncated:    a.Truncated,
		Answer:       a.Text,
	}
}

func batchAnswerToDTO(item usecase.BatchAnswer) batchAnswerDTO {
	a := item.Answer
	out := batchAnswerDTO{
		InvocationID: a.InvocationID,
		Question:     a.Question,
		State:        string(a.State),
		SQL:          a.SQL,
		RowCount:     a.RowCount,
		Truncated:    a.Truncated,
		Answer:       a.Text,
	}
	if item.Err != nil {
		if out.State == "" {
			out.State = string(nlquery.StateFailed)
		}
		out.Error = &batchErrorDTO{
			Stage:   string(a.FailedStage),
			Status:  mapError(item.Err).Status,
			Message: item.Err.Error(),
		}
	}
	return out
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:              p.ID,
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
		CreatedAt:       p.CreatedAt,
	}
}

func profileToDTO(p player.Profile) profileDTO {
	out := profileDTO{playerDTO: playerToDTO(p.Player)}
	if info := p.AdditionalInfo; info != nil {
		dto := additionalInfoToDTO(*info)
		out.AdditionalInfo = &dto
	}
	return out
}

func additionalInfoToDTO(info player.AdditionalInfo) additionalInfoDTO {
	return additionalInfoDTO{
		Birthplace:      info.Birthplace,
		CurrentClub:     info.CurrentClub,
		ClubJoinDate:    formatDate(info.ClubJoinDate),
		ContractEndDate: formatDate(info.ContractEndDate),
		MarketValue:     info.MarketValue,
	}
}

func (r createPlayerRequest) toDomain() (player.Player, *player.AdditionalInfo, error) {
	p := player.Player{
		FirstName:       strings.TrimSpace(r.FirstName),
		LastName:        strings.TrimSpace(r.LastName),
		Age:             r.Age,
		Nationality:     strings.TrimSpace(r.Nationality),
		Position:        strings.TrimSpace(r.Position),
		Height:          r.Height,
		Weight:          r.Weight,
		OverallRating:   r.OverallRating,
		PotentialRating: r.PotentialRating,
		Pace:            r.Pace,
		Shooting:        r.Shooting,
		Passing:         r.Passing,
		Dribbling:       r.Dribbling,
		Defending:       r.Defending,
		Physical:        r.Physical,
	}
	if r.AdditionalInfo == nil {
		return p, nil, nil
	}

	joined, err := parseDate(r.AdditionalInfo.ClubJoinDate)
	if err != nil {
		return player.Player{}, nil, fmt.Errorf("%w: club_join_date: %v", usecase.ErrInvalidInput, err)
	}
	contractEnd, err := parseDate(r.AdditionalInfo.ContractEndDate)
	if err != nil {
		return player.Player{}, nil, fmt.Errorf("%w: contract_end_date: %v", usecase.ErrInvalidInput, err)
	}

	return p, &player.AdditionalInfo{
		Birthplace:      strings.TrimSpace(r.AdditionalInfo.Birthplace),
		CurrentClub:     strings.TrimSpace(r.AdditionalInfo.CurrentClub),
		ClubJoinDate:    joined,
		ContractEndDate: contractEnd,
		MarketValue:     r.AdditionalInfo.MarketValue,
	}, nil
}

func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
