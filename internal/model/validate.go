package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Shape validation for stored documents.
//
// Every record read from storage passes through one of the Decode*
// functions before any other component sees it. The checks are purely
// structural: field presence and primitive type, no business rules. A
// document missing a field is rejected rather than decoded with zero
// defaults, so e.g. a player without "kills" is a corrupt record, not a
// player with zero kills.

type rawDoc map[string]json.RawMessage

func parseDoc(data []byte) (rawDoc, error) {
	var doc rawDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("not a JSON object: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document is null")
	}
	return doc, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (d rawDoc) str(field string) error {
	raw, ok := d[field]
	if !ok {
		return fmt.Errorf("missing field %q", field)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("field %q is not a string", field)
	}
	return nil
}

func (d rawDoc) nullableStr(field string) error {
	raw, ok := d[field]
	if !ok {
		return fmt.Errorf("missing field %q", field)
	}
	if isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("field %q is neither null nor a string", field)
	}
	return nil
}

func (d rawDoc) number(field string) error {
	raw, ok := d[field]
	if !ok {
		return fmt.Errorf("missing field %q", field)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("field %q is not a number", field)
	}
	return nil
}

func (d rawDoc) boolean(field string) error {
	raw, ok := d[field]
	if !ok {
		return fmt.Errorf("missing field %q", field)
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return fmt.Errorf("field %q is not a boolean", field)
	}
	return nil
}

// timestamp requires an RFC 3339 string, the encoding/json form of time.Time
func (d rawDoc) timestamp(field string) error {
	raw, ok := d[field]
	if !ok {
		return fmt.Errorf("missing field %q", field)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("field %q is not a timestamp string", field)
	}
	if _, err := time.Parse(time.RFC3339, s); err != nil {
		return fmt.Errorf("field %q is not a valid timestamp", field)
	}
	return nil
}

// ValidateUser checks that data has the shape of a stored User
func ValidateUser(data []byte) error {
	doc, err := parseDoc(data)
	if err != nil {
		return err
	}
	for _, check := range []error{
		doc.str("name"),
		doc.str("authToken"),
		doc.str("messagingToken"),
		doc.timestamp("created"),
	} {
		if check != nil {
			return check
		}
	}
	return nil
}

// ValidateGame checks that data has the shape of a stored Game
func ValidateGame(data []byte) error {
	doc, err := parseDoc(data)
	if err != nil {
		return err
	}
	for _, check := range []error{
		doc.str("name"),
		doc.str("state"),
		doc.str("creator"),
		doc.timestamp("created"),
		doc.timestamp("end"),
	} {
		if check != nil {
			return check
		}
	}
	var state GameState
	_ = json.Unmarshal(doc["state"], &state)
	switch state {
	case GameStateNotStarted, GameStateRunning, GameStateOver:
		return nil
	default:
		return fmt.Errorf("unknown game state %q", state)
	}
}

// ValidatePlayer checks that data has the shape of a stored Player
func ValidatePlayer(data []byte) error {
	doc, err := parseDoc(data)
	if err != nil {
		return err
	}
	for _, check := range []error{
		doc.str("state"),
		doc.number("kills"),
		doc.nullableStr("murderer"),
		doc.nullableStr("victim"),
		doc.boolean("wantsNewVictim"),
	} {
		if check != nil {
			return check
		}
	}
	var state PlayerState
	_ = json.Unmarshal(doc["state"], &state)
	switch state {
	case PlayerStateJoining, PlayerStateAlive, PlayerStateDying, PlayerStateDead:
	default:
		return fmt.Errorf("unknown player state %q", state)
	}
	raw, ok := doc["death"]
	if !ok {
		return fmt.Errorf("missing field %q", "death")
	}
	if isNull(raw) {
		return nil
	}
	return validateDeath(raw)
}

func validateDeath(data []byte) error {
	doc, err := parseDoc(data)
	if err != nil {
		return fmt.Errorf("death: %w", err)
	}
	for _, check := range []error{
		doc.timestamp("time"),
		doc.str("murderer"),
		doc.str("weapon"),
		doc.str("lastWords"),
	} {
		if check != nil {
			return fmt.Errorf("death: %w", check)
		}
	}
	return nil
}

// DecodeUser validates and decodes a stored User document
func DecodeUser(id UserID, data []byte) (*User, error) {
	if err := ValidateUser(data); err != nil {
		return nil, err
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	u.ID = id
	return &u, nil
}

// DecodeGame validates and decodes a stored Game document
func DecodeGame(code GameCode, data []byte) (*Game, error) {
	if err := ValidateGame(data); err != nil {
		return nil, err
	}
	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	g.Code = code
	return &g, nil
}

// DecodePlayer validates and decodes a stored Player document
func DecodePlayer(code GameCode, id UserID, data []byte) (*Player, error) {
	if err := ValidatePlayer(data); err != nil {
		return nil, err
	}
	var p Player
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	p.GameCode = code
	p.UserID = id
	return &p, nil
}
