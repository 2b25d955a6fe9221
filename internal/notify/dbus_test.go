//go:build linux

package notify

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WithoutSessionBus(t *testing.T) {
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "unix:path=/nonexistent/bus")

	n, err := New()
	require.NoError(t, err)
	id, err := n.Notify(Notification{Title: "reel"})
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.NoError(t, n.Close(id))
}

func TestBusNotifier_ReplacesInPlace(t *testing.T) {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
		t.Skip("no D-Bus session available")
	}
	n, err := New()
	require.NoError(t, err)
	if _, ok := n.(*busNotifier); !ok {
		t.Skip("session bus not reachable")
	}

	first, err := n.Notify(Notification{Title: "reel test", Body: "first", Timeout: 1000, Urgency: UrgencyLow})
	require.NoError(t, err)
	require.NotZero(t, first)

	second, err := n.Notify(Notification{Title: "reel test", Body: "second", Timeout: 1000, ReplacesID: first})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.NoError(t, n.Close(second))
}
