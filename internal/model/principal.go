package model

import "github.com/google/uuid"

type Principal struct {
	UserID uuid.UUID
	TeamID uuid.UUID
	Role   string
}

func (p Principal) HasTeam() bool {
	return p.TeamID != uuid.Nil
}
