// Package protocol defines the JSON wire format spoken over the websocket:
// a closed set of inbound message kinds and typed outbound events.
package protocol

import "encoding/json"

type InboundType string

const (
	InCreateRoom      InboundType = "createRoom"
	InJoinRoom        InboundType = "joinRoom"
	InLeaveRoom       InboundType = "leaveRoom"
	InListRooms       InboundType = "listRooms"
	InSpectateRoom    InboundType = "spectateRoom"
	InRequestSpectate InboundType = "requestSpectate"
	InJoin            InboundType = "join"
	InSetPlayerName   InboundType = "setPlayerName"
	InClientReady     InboundType = "clientReady"
	InStartGame       InboundType = "startGame"
	InSetRoomMode     InboundType = "setRoomMode"
	InUpdateProgress  InboundType = "updatePlayerProgress"
	InCompleteWord    InboundType = "completeWord"
	InPlayerLost      InboundType = "playerLost"
	InSuddenDeathElim InboundType = "muerteSubitaElimination"
	InPowerupAttack   InboundType = "powerup:attack"
	InKickUser        InboundType = "kickUser"
	InTransferHost    InboundType = "transferHost"
)

// ClientMessage is the inbound envelope. One struct covers every message
// kind; progress fields are pointers so partial updates can distinguish
// "absent" from zero.
type ClientMessage struct {
	Type InboundType `json:"type"`

	Name   string `json:"name,omitempty"`
	Color  string `json:"color,omitempty"`
	RoomID string `json:"roomId,omitempty"`
	Modo   string `json:"modo,omitempty"`

	Ready    *bool `json:"ready,omitempty"`
	Duration *int  `json:"duration,omitempty"`

	// kick / transfer / power-up targets
	UserID     string          `json:"userId,omitempty"`
	NewHostID  string          `json:"newHostId,omitempty"`
	TargetID   string          `json:"targetId,omitempty"`
	EffectType string          `json:"effectType,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`

	// updatePlayerProgress partial fields
	CompletedWords      *int      `json:"completedWords,omitempty"`
	TotalErrors         *int      `json:"totalErrors,omitempty"`
	PlayTime            *float64  `json:"playTime,omitempty"`
	Lives               *int      `json:"lives,omitempty"`
	CurrentWordProgress *string   `json:"currentWordProgress,omitempty"`
	WordStack           *[]string `json:"wordStack,omitempty"`
	Eliminated          *bool     `json:"eliminated,omitempty"`
}

// Decode parses an inbound frame. Unknown fields are tolerated; a missing
// or unknown type is reported by the caller via IsKnown.
func Decode(data []byte) (ClientMessage, error) {
	var m ClientMessage
	err := json.Unmarshal(data, &m)
	return m, err
}

// IsKnown reports whether t belongs to the closed inbound set.
func (t InboundType) IsKnown() bool {
	switch t {
	case InCreateRoom, InJoinRoom, InLeaveRoom, InListRooms, InSpectateRoom,
		InRequestSpectate, InJoin, InSetPlayerName, InClientReady, InStartGame,
		InSetRoomMode, InUpdateProgress, InCompleteWord, InPlayerLost,
		InSuddenDeathElim, InPowerupAttack, InKickUser, InTransferHost:
		return true
	}
	return false
}
