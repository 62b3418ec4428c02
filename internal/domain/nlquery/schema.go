package nlquery

import (
	"fmt"
	"strings"
)

const (
	TablePlayers        = "players"
	TablePlayersAddInfo = "players_add_info"
	JoinKey             = "player_id"
)

// Column is one described column of the queryable schema.
type Column struct {
	Table       string
	Name        string
	Description string
}

// SchemaDescriptor is the fixed natural-language description of the
// queryable tables handed to the model as its system turn. Columns keep
// their declaration order and are only ever appended.
type SchemaDescriptor struct {
	columns []Column
	joinKey string
}

func NewSchemaDescriptor(joinKey string, columns ...Column) SchemaDescriptor {
	out := make([]Column, len(columns))
	copy(out, columns)
	return SchemaDescriptor{columns: out, joinKey: joinKey}
}

// With returns a descriptor with extra columns appended after the existing ones.
func (s SchemaDescriptor) With(columns ...Column) SchemaDescriptor {
	out := make([]Column, 0, len(s.columns)+len(columns))
	out = append(out, s.columns...)
	out = append(out, columns...)
	return SchemaDescriptor{columns: out, joinKey: s.joinKey}
}

func (s SchemaDescriptor) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Tables returns the distinct table names in first-seen order.
func (s SchemaDescriptor) Tables() []string {
	seen := make(map[string]struct{}, 2)
	out := make([]string, 0, 2)
	for _, c := range s.columns {
		if _, ok := seen[c.Table]; ok {
			continue
		}
		seen[c.Table] = struct{}{}
		out = append(out, c.Table)
	}
	return out
}

// Describe renders the system-turn text. It is pure: the same descriptor
// always yields the same string.
func (s SchemaDescriptor) Describe() string {
	tables := s.Tables()

	var b strings.Builder
	b.WriteString("After the descriptions you will see user prompt to take an ACTION, just type SQL query as plain text without any other text or sign. ")
	fmt.Fprintf(&b, "The following bullet points are the concise description for each column in %s table. ", strings.Join(tables, " and "))
	b.WriteString("If you can't find a column in a table you checked, you can always check the other table. ")
	if s.joinKey != "" && len(tables) > 1 {
		fmt.Fprintf(&b, "You can join %s tables together using %s. ", strings.Join(tables, " and "), s.joinKey)
	}

	for _, table := range tables {
		fmt.Fprintf(&b, "Here are the bullet points for %s table:", table)
		n := 0
		for _, c := range s.columns {
			if c.Table != table {
				continue
			}
			n++
			fmt.Fprintf(&b, " %d. %s: (table name: %s) %s", n, c.Name, c.Table, c.Description)
		}
		b.WriteString(" ")
	}

	return strings.TrimSpace(b.String())
}

// DefaultSchema describes the players and players_add_info tables.
func DefaultSchema() SchemaDescriptor {
	return NewSchemaDescriptor(JoinKey,
		Column{Table: TablePlayers, Name: "player_id", Description: "A unique identifier for each player."},
		Column{Table: TablePlayers, Name: "first_name", Description: "The name of the player."},
		Column{Table: TablePlayers, Name: "last_name", Description: "The last name of player."},
		Column{Table: TablePlayers, Name: "age", Description: "Age of player."},
		Column{Table: TablePlayers, Name: "nationality", Description: "A string identifier representing the player's nationality."},
		Column{Table: TablePlayers, Name: "position", Description: "The position of player where they play at football pitch, for example Forward, Midfielder, Defender or Goalkeeper."},
		Column{Table: TablePlayers, Name: "height", Description: "Height of player in metres."},
		Column{Table: TablePlayers, Name: "weight", Description: "Weight of player in kilograms."},
		Column{Table: TablePlayers, Name: "overall_rating", Description: "Current overall rating of player from 0 to 100."},
		Column{Table: TablePlayers, Name: "potential_rating", Description: "Potential rating the player can reach from 0 to 100."},
		Column{Table: TablePlayers, Name: "pace", Description: "Pace attribute from 0 to 100."},
		Column{Table: TablePlayers, Name: "shooting", Description: "Shooting attribute from 0 to 100."},
		Column{Table: TablePlayers, Name: "passing", Description: "Passing attribute from 0 to 100."},
		Column{Table: TablePlayers, Name: "dribbling", Description: "Dribbling attribute from 0 to 100."},
		Column{Table: TablePlayers, Name: "defending", Description: "Defending attribute from 0 to 100."},
		Column{Table: TablePlayers, Name: "physical", Description: "Physical attribute from 0 to 100."},
		Column{Table: TablePlayers, Name: "created_at", Description: "Timestamp when the player record was created."},
		Column{Table: TablePlayersAddInfo, Name: "player_id", Description: "Identifier of the player this row belongs to, references players.player_id."},
		Column{Table: TablePlayersAddInfo, Name: "birthplace", Description: "City or region where the player was born."},
		Column{Table: TablePlayersAddInfo, Name: "current_club", Description: "Name of the club the player currently plays for."},
		Column{Table: TablePlayersAddInfo, Name: "club_join_date", Description: "Date the player joined the current club."},
		Column{Table: TablePlayersAddInfo, Name: "contract_end_date", Description: "Date the contract with the current club ends."},
		Column{Table: TablePlayersAddInfo, Name: "market_value", Description: "Estimated market value of the player in euros."},
		Column{Table: TablePlayersAddInfo, Name: "created_at", Description: "Timestamp when the additional info record was created."},
	)
}
