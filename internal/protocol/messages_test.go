package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode_PartialProgressKeepsAbsenceDistinct(t *testing.T) {
	m, err := Decode([]byte(`{"type":"updatePlayerProgress","completedWords":0,"roomId":"r1"}`))
	require.NoError(t, err)

	require.Equal(t, InUpdateProgress, m.Type)
	require.NotNil(t, m.CompletedWords, "explicit zero must be present")
	require.Equal(t, 0, *m.CompletedWords)
	require.Nil(t, m.TotalErrors, "omitted field must stay absent")
	require.Nil(t, m.WordStack)
	require.Equal(t, "r1", m.RoomID)
}

func TestDecode_ReadyFalseIsPresent(t *testing.T) {
	m, err := Decode([]byte(`{"type":"clientReady","ready":false}`))
	require.NoError(t, err)
	require.NotNil(t, m.Ready)
	require.False(t, *m.Ready)
}

func TestInboundType_IsKnown(t *testing.T) {
	require.True(t, InPowerupAttack.IsKnown())
	require.True(t, InSuddenDeathElim.IsKnown())
	require.False(t, InboundType("formatHardDrive").IsKnown())
	require.False(t, InboundType("").IsKnown())
}

func TestDecode_PowerupPayloadPassesThroughRaw(t *testing.T) {
	m, err := Decode([]byte(`{"type":"powerup:attack","targetId":"t1","effectType":"freeze","payload":{"seconds":3}}`))
	require.NoError(t, err)
	require.Equal(t, "t1", m.TargetID)
	require.JSONEq(t, `{"seconds":3}`, string(m.Payload))
}
