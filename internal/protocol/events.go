package protocol

import "encoding/json"

// PlayerView is the public projection of a player broadcast in
// updatePlayerList.
type PlayerView struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Color               string   `json:"color"`
	Ready               bool     `json:"ready"`
	Eliminated          bool     `json:"eliminated"`
	Finished            bool     `json:"finished"`
	CompletedWords      int      `json:"completedWords"`
	TotalErrors         int      `json:"totalErrors"`
	CurrentWordProgress string   `json:"currentWordProgress"`
	WordStack           []string `json:"wordStack"`
	Lives               int      `json:"lives"`
}

type SpectatorView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type RoomList struct {
	Type  string `json:"type"`
	Rooms any    `json:"rooms"`
}

type JoinedRoom struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	RoomID  string `json:"roomId,omitempty"`
	Error   string `json:"error,omitempty"`
}

type LeftRoom struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
}

type PlayerList struct {
	Type       string          `json:"type"`
	Players    []PlayerView    `json:"players"`
	Spectators []SpectatorView `json:"spectators"`
	HostID     string          `json:"hostId"`
	Modo       string          `json:"modo"`
}

type GameStart struct {
	Type           string              `json:"type"`
	WordAssignment map[string][]string `json:"wordAssignment"`
	MaxStack       int                 `json:"maxStack"`
	IntervalMs     int                 `json:"intervalMs"`
	StartAt        int64               `json:"startAt"`
	Modo           string              `json:"modo"`
	Duration       int                 `json:"duration,omitempty"`
}

type TimeLeftUpdate struct {
	Type     string `json:"type"`
	TimeLeft int    `json:"timeLeft"`
}

type NotEnoughPlayers struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type PlayerEliminated struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Message  string `json:"message"`
}

type PlayerWon struct {
	Type     string `json:"type"`
	WinnerID string `json:"winnerId"`
	Message  string `json:"message"`
}

type GameOver struct {
	Type       string `json:"type"`
	WinnerID   string `json:"winnerId,omitempty"`
	WinnerName string `json:"winnerName,omitempty"`
	Message    string `json:"message"`
}

type RoomModeUpdated struct {
	Type     string `json:"type"`
	Modo     string `json:"modo"`
	Duration int    `json:"duration,omitempty"`
}

type Kicked struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type HostTransferred struct {
	Type      string `json:"type"`
	NewHostID string `json:"newHostId"`
}

type SpectateSuccess struct {
	Type      string `json:"type"`
	RoomID    string `json:"roomId"`
	GameState any    `json:"gameState"`
}

type SpectateError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type PowerupReceive struct {
	Type       string          `json:"type"`
	EffectType string          `json:"effectType"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

type LivesUpdate struct {
	Type  string `json:"type"`
	Lives int    `json:"lives"`
}

const (
	EvtRoomList         = "roomList"
	EvtJoinedRoom       = "joinedRoom"
	EvtLeftRoom         = "leftRoom"
	EvtUpdatePlayerList = "updatePlayerList"
	EvtGameStart        = "gameStart"
	EvtTimeLeftUpdate   = "timeLeftUpdate"
	EvtNotEnoughPlayers = "notEnoughPlayers"
	EvtPlayerEliminated = "playerEliminated"
	EvtPlayerWon        = "playerWon"
	EvtGameOver         = "gameOver"
	EvtRoomModeUpdated  = "roomModeUpdated"
	EvtKicked           = "kicked"
	EvtHostTransferred  = "hostTransferred"
	EvtSpectateSuccess  = "spectateSuccess"
	EvtSpectateError    = "spectateError"
	EvtPowerupReceive   = "powerup:receive"
	EvtLivesUpdate      = "livesUpdate"
)

// Encode marshals an outbound event. Events are plain structs with a
// pre-filled Type field, so a marshal error means a programming bug; the
// caller logs and drops the frame.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
