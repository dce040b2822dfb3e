package response

import (
	"time"

	"github.com/assassin-game/assassin-go/internal/model"
)

// User represents a user in API responses. The stored token hash never
// leaves the server.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	MessagingToken string    `json:"messaging_token,omitempty"`
	Created        time.Time `json:"created"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:             string(u.ID),
		Name:           u.Name,
		MessagingToken: u.MessagingToken,
		Created:        u.Created,
	}
}

// SignUpResponse is the response for user creation. The auth token is
// shown exactly once, here.
type SignUpResponse struct {
	User      User   `json:"user"`
	AuthToken string `json:"auth_token"`
}

// Game represents a game in API responses
type Game struct {
	Code    string    `json:"code"`
	Name    string    `json:"name"`
	State   string    `json:"state"`
	Creator string    `json:"creator"`
	Created time.Time `json:"created"`
	End     time.Time `json:"end"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	return Game{
		Code:    string(g.Code),
		Name:    g.Name,
		State:   string(g.State),
		Creator: string(g.Creator),
		Created: g.Created,
		End:     g.End,
	}
}

// Death represents a death record in API responses
type Death struct {
	Time      time.Time `json:"time"`
	Murderer  string    `json:"murderer"`
	Weapon    string    `json:"weapon"`
	LastWords string    `json:"last_words"`
}

// Player represents a player in API responses
type Player struct {
	UserID         string  `json:"user_id"`
	State          string  `json:"state"`
	Kills          int     `json:"kills"`
	Murderer       *string `json:"murderer"`
	Victim         *string `json:"victim"`
	WantsNewVictim bool    `json:"wants_new_victim"`
	Death          *Death  `json:"death,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	resp := Player{
		UserID:         string(p.UserID),
		State:          string(p.State),
		Kills:          p.Kills,
		WantsNewVictim: p.WantsNewVictim,
	}
	if p.Murderer != nil {
		m := string(*p.Murderer)
		resp.Murderer = &m
	}
	if p.Victim != nil {
		v := string(*p.Victim)
		resp.Victim = &v
	}
	if p.Death != nil {
		resp.Death = &Death{
			Time:      p.Death.Time,
			Murderer:  string(p.Death.Murderer),
			Weapon:    p.Death.Weapon,
			LastWords: p.Death.LastWords,
		}
	}
	return resp
}

// PlayerList wraps a list of players
type PlayerList struct {
	Players []Player `json:"players"`
}

// PlayerListFromModel converts a slice of model players
func PlayerListFromModel(players []*model.Player) PlayerList {
	out := PlayerList{Players: make([]Player, len(players))}
	for i, p := range players {
		out.Players[i] = PlayerFromModel(p)
	}
	return out
}
