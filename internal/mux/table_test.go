package mux

import (
	"net/http/httptest"
	"strings"
	"testing"

	"blackjack-server/pkg/room"
	"blackjack-server/pkg/table"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func TestTableHandler_list(t *testing.T) {
	m := testMux()
	ts := httptest.NewServer(m)
	defer ts.Close()

	var listings []*table.Listing
	assertGet(t, ts, "/table", &listings, 200)
	assert.Equal(t, 0, len(listings))

	var info table.Info
	assertPost(t, ts, "/table", postTablePayload{Type: "intermediate"}, &info, 201)
	assert.Equal(t, "intermediate", info.TypeKey)
	assert.Equal(t, 6, len(info.ID))
	assert.False(t, info.Private)

	// private tables stay out of the listing
	assertPost(t, ts, "/table", postTablePayload{Type: "beginner", CustomName: "my-game"}, nil, 201)

	assertGet(t, ts, "/table", &listings, 200)
	assert.Equal(t, 1, len(listings))
	assert.Equal(t, info.ID, listings[0].ID)
	assert.Equal(t, 25, listings[0].MinBet)
}

func TestTableHandler_websocketJoin(t *testing.T) {
	m := testMux()
	ts := httptest.NewServer(m)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/table/GAME01/ws?name=alpha", nil)
	assert.NoError(t, err)
	defer conn.Close()

	var resp room.Response
	assert.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "joinResult", resp.Key)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "alpha", data["name"])
	assert.Equal(t, "GAME01", data["tableId"])

	// joining on an unknown id created a private table
	info, ok := m.registry.Get("GAME01")
	assert.True(t, ok)
	assert.True(t, info.Private)
}

func TestTableHandler_websocketJoin_validation(t *testing.T) {
	m := testMux()
	ts := httptest.NewServer(m)
	defer ts.Close()

	info := m.registry.Create("high-roller", "")
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	// a bankroll below the buy-in floor is rejected before the upgrade
	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"/table/"+info.ID+"/ws?name=alpha&bankroll=100", nil)
	assert.Equal(t, websocket.ErrBadHandshake, err)
	assert.Equal(t, 400, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL+"/table/"+info.ID+"/ws?bankroll=nope", nil)
	assert.Equal(t, websocket.ErrBadHandshake, err)
	assert.Equal(t, 400, resp.StatusCode)
}
