package board

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombiz/blitz/internal/datastore"
	"github.com/zombiz/blitz/internal/model"
)

// 1373803527 seconds == 0x51e29407
const frameEpochHex = "51e29407"

func basicFrame(values ...uint16) string {
	frame := "08" + frameEpochHex
	for _, v := range values {
		frame += fmt.Sprintf("%04x", v)
	}
	return frame
}

func testManager(t *testing.T) *Manager {
	t.Helper()

	store := datastore.NewSQLiteStore(filepath.Join(t.TempDir(), "blitz.db"))
	require.NoError(t, store.Connect(context.Background()))
	require.NoError(t, store.CreateTables(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	m := NewManager(datastore.NewService(store))
	require.NoError(t, m.RegisterDefaults())
	return m
}

func TestParseMessageBasicBoard(t *testing.T) {
	m := testManager(t)

	samples := m.ParseMessage(basicFrame(5, 10, 0, 1023, 512))
	require.Len(t, samples, 5)

	assert.Equal(t, "adc_channel_one", samples[0].Variable)
	assert.Equal(t, 5.0, samples[0].Value)
	assert.Equal(t, 1023.0, samples[3].Value)
	for _, s := range samples {
		assert.Equal(t, int64(1373803527000), s.TimeLogged)
	}
}

func TestParseMessageNetScannerScaling(t *testing.T) {
	m := testManager(t)

	frame := "0a" + frameEpochHex
	for i := 0; i < 16; i++ {
		frame += "8000" // mid-scale raw count
	}
	samples := m.ParseMessage(frame)
	require.Len(t, samples, 16)
	assert.Equal(t, "Channel_1", samples[0].Variable)
	assert.InDelta(t, 0.0, samples[0].Value, 1e-9)
}

func TestParseMessageSkipsGarbage(t *testing.T) {
	m := testManager(t)

	assert.Nil(t, m.ParseMessage(""), "empty frame")
	assert.Nil(t, m.ParseMessage("08"), "truncated frame")
	assert.Nil(t, m.ParseMessage("zz"+frameEpochHex), "unparseable board id")
	assert.Nil(t, m.ParseMessage("ff"+frameEpochHex+"0001"), "unknown board")
	assert.Nil(t, m.ParseMessage(basicFrame(1, 2, 3)), "wrong payload length")
	assert.Nil(t, m.ParseMessage(basicFrame(1, 2, 3, 4, 5)+"beef"), "trailing bytes")
}

func TestRegisterDuplicate(t *testing.T) {
	m := testManager(t)

	err := m.Register(Board{Id: 8, Description: "Impostor"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestParseSessionMessages(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()

	session := model.Session{Id: 1, TimeStarted: 1373803527000, NumberOfReadings: 10}
	require.NoError(t, m.svc.Store().Upsert(ctx, model.SessionSchema, session.ToRecord()))

	frames := []string{
		basicFrame(1, 2, 3, 4, 5),
		basicFrame(6, 7, 8, 9, 10),
		"ff" + frameEpochHex + "0001", // unknown board, skipped
	}
	require.NoError(t, m.ParseSessionMessages(ctx, 1, frames))

	readings, err := m.svc.SessionReadings(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, readings.Len())

	// the channel names became categories
	vars, err := m.svc.SessionVariables(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, vars, 5)

	// 10 readings expected, 10 stored: the session is fully available
	sessions, err := m.svc.Store().Query(ctx, model.SessionSchema, datastore.Filter{"id": int64(1)})
	require.NoError(t, err)
	require.Equal(t, 1, sessions.Len())
	assert.True(t, model.SessionFromRecord(sessions.Record(0)).Available)
}

func TestParseCacheMessage(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()

	require.NoError(t, m.ParseCacheMessage(ctx, basicFrame(1, 2, 3, 4, 5)))

	cached, err := m.svc.Cache(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, cached.Len())
}

func TestDescriptions(t *testing.T) {
	m := testManager(t)

	got := m.Descriptions([]string{"08", "0a", "ff", "zz"})
	assert.Contains(t, got[0], "Basic Expansion Board")
	assert.Contains(t, got[1], "NetScanner")
	assert.Contains(t, got[2], "Unknown")
	assert.Contains(t, got[3], "unparseable")
}
