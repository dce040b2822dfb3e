package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case SignUpResult:
		o.printSignUpResult(v)
	case Game:
		o.printGame(v)
	case Player:
		o.printPlayer(v)
	case PlayerList:
		o.printPlayerList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

// SignUpResult combines user and the one-time auth token
type SignUpResult struct {
	User      User   `json:"user"`
	AuthToken string `json:"auth_token"`
}

// Game response type
type Game struct {
	Code    string    `json:"code"`
	Name    string    `json:"name"`
	State   string    `json:"state"`
	Creator string    `json:"creator"`
	Created time.Time `json:"created"`
	End     time.Time `json:"end"`
}

// Death response type
type Death struct {
	Time      time.Time `json:"time"`
	Murderer  string    `json:"murderer"`
	Weapon    string    `json:"weapon"`
	LastWords string    `json:"last_words"`
}

// Player response type
type Player struct {
	UserID         string  `json:"user_id"`
	State          string  `json:"state"`
	Kills          int     `json:"kills"`
	Murderer       *string `json:"murderer"`
	Victim         *string `json:"victim"`
	WantsNewVictim bool    `json:"wants_new_victim"`
	Death          *Death  `json:"death,omitempty"`
}

// PlayerList response type
type PlayerList struct {
	Players []Player `json:"players"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Name, u.ID)
	fmt.Printf("Created: %s\n", u.Created.Format(time.RFC3339))
}

func (o *Output) printSignUpResult(r SignUpResult) {
	o.printUser(r.User)
	fmt.Printf("Token: %s\n", r.AuthToken)
	fmt.Println("Keep the token safe; it is shown only once.")
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s (%s)\n", g.Name, g.Code)
	fmt.Printf("State: %s\n", g.State)
	fmt.Printf("Creator: %s\n", g.Creator)
	fmt.Printf("Ends: %s\n", g.End.Format(time.RFC3339))
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s\n", p.UserID)
	fmt.Printf("State: %s\n", p.State)
	fmt.Printf("Kills: %d\n", p.Kills)
	if p.Victim != nil {
		fmt.Printf("Victim: %s\n", *p.Victim)
	}
	if p.WantsNewVictim {
		fmt.Println("Awaiting a new victim")
	}
	if p.Death != nil {
		fmt.Printf("Died: %s (weapon: %s)\n", p.Death.Time.Format(time.RFC3339), p.Death.Weapon)
		if p.Death.LastWords != "" {
			fmt.Printf("Last words: %s\n", p.Death.LastWords)
		}
	}
}

func (o *Output) printPlayerList(l PlayerList) {
	fmt.Printf("Alive players (%d):\n", len(l.Players))
	for _, p := range l.Players {
		fmt.Printf("  - %s (%d kills)\n", p.UserID, p.Kills)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
