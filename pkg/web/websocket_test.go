package web

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbehnke/m17-nexus/pkg/logger"
	"github.com/dbehnke/m17-nexus/pkg/modem"
)

func TestEvent_Marshal(t *testing.T) {
	ev := Event{
		Type:      "lsf",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Data: map[string]interface{}{
			"src": "N0CALL",
			"dst": "@ALL",
		},
	}

	raw, err := ev.Marshal()
	require.NoError(t, err)

	var back map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "lsf", back["type"])

	data, ok := back["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "N0CALL", data["src"])
}

func TestServer_PublishFields_EventShape(t *testing.T) {
	srv := NewServer(Config{Host: "127.0.0.1", Port: 0}, logger.Nop())

	f := modem.Fields{
		Src:   "N0CALL",
		Dst:   "@ALL",
		Type:  [2]byte{0x00, 0x05},
		CRCOK: true,
		SMS:   "hello",
	}
	srv.PublishFields(f)

	// The event is queued on the broadcast channel; inspect it directly.
	select {
	case ev := <-srv.hub.broadcast:
		assert.Equal(t, "sms", ev.Type)
		assert.Equal(t, "hello", ev.Data["sms"])
		assert.Equal(t, "0005", ev.Data["type"])
		assert.Equal(t, "N0CALL", ev.Data["src"])
	default:
		t.Fatal("no event queued")
	}
}

func TestServer_PublishSignature(t *testing.T) {
	srv := NewServer(Config{}, logger.Nop())
	srv.PublishSignature(false)

	select {
	case ev := <-srv.hub.broadcast:
		assert.Equal(t, "signature", ev.Type)
		assert.Equal(t, false, ev.Data["valid"])
	default:
		t.Fatal("no event queued")
	}
}
