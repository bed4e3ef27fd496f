// Command termclient is a terminal renderer for a lane-dash run. It joins a
// run over HTTP, streams state over the websocket, and maps arrow keys and
// the space bar to lane and jump commands.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"

	"lane-dash/server/internal/net/proto"
	"lane-dash/server/internal/sim"
)

const (
	laneColumns    = 3
	trackRows      = 18
	heartbeatEvery = 2 * time.Second
	frameEvery     = 33 * time.Millisecond
)

type client struct {
	screen tcell.Screen
	conn   *websocket.Conn
	runID  string

	mu       sync.Mutex
	snapshot sim.Snapshot
	rtt      int64
	closed   bool
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "lane-dash server base URL")
	flag.Parse()

	if err := run(*serverURL); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(serverURL string) error {
	join, err := joinRun(serverURL)
	if err != nil {
		return fmt.Errorf("join run: %w", err)
	}

	wsURL := websocketURL(serverURL, join.ID)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	c := &client{screen: screen, conn: conn, runID: join.ID, snapshot: join.Snapshot}

	go c.readStates()
	go c.heartbeatLoop()

	if err := c.send(proto.ClientMessage{Ver: proto.Version, Type: proto.TypeStart}); err != nil {
		return err
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	frames := time.NewTicker(frameEvery)
	defer frames.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if done := c.handleKey(ev); done {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-frames.C:
			c.render()
		}
	}
}

func joinRun(serverURL string) (proto.JoinResponse, error) {
	var join proto.JoinResponse
	resp, err := http.Post(serverURL+"/join", "application/json", nil)
	if err != nil {
		return join, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return join, fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&join); err != nil {
		return join, err
	}
	return join, nil
}

func websocketURL(serverURL, runID string) string {
	ws := serverURL
	switch {
	case len(ws) > 8 && ws[:8] == "https://":
		ws = "wss://" + ws[8:]
	case len(ws) > 7 && ws[:7] == "http://":
		ws = "ws://" + ws[7:]
	}
	return ws + "/ws?id=" + runID
}

func (c *client) send(msg proto.ClientMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *client) sendAction(action string) {
	msg := proto.ClientMessage{Ver: proto.Version, Type: proto.TypeInput, Action: action}
	if err := c.send(msg); err != nil {
		c.markClosed()
	}
}

func (c *client) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		c.sendAction(proto.ActionLeft)
	case tcell.KeyRight:
		c.sendAction(proto.ActionRight)
	case tcell.KeyUp:
		c.sendAction(proto.ActionJump)
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			c.sendAction(proto.ActionJump)
		case 'q':
			return true
		case 'r':
			c.send(proto.ClientMessage{Ver: proto.Version, Type: proto.TypeStart})
		}
	}
	return false
}

func (c *client) readStates() {
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			c.markClosed()
			return
		}
		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(payload, &envelope); err != nil {
			continue
		}
		switch envelope.Type {
		case proto.TypeState:
			var state proto.StateMessage
			if err := json.Unmarshal(payload, &state); err != nil {
				continue
			}
			c.mu.Lock()
			c.snapshot = state.Snapshot
			c.mu.Unlock()
		case proto.TypeHeartbeat:
			var hb proto.HeartbeatMessage
			if err := json.Unmarshal(payload, &hb); err != nil {
				continue
			}
			c.mu.Lock()
			c.rtt = hb.RTTMillis
			c.mu.Unlock()
		}
	}
}

func (c *client) heartbeatLoop() {
	ticker := time.NewTicker(heartbeatEvery)
	defer ticker.Stop()
	for range ticker.C {
		msg := proto.ClientMessage{
			Ver:    proto.Version,
			Type:   proto.TypeHeartbeat,
			SentAt: time.Now().UnixMilli(),
		}
		if err := c.send(msg); err != nil {
			c.markClosed()
			return
		}
	}
}

func (c *client) markClosed() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *client) render() {
	c.mu.Lock()
	snap := c.snapshot
	rtt := c.rtt
	closed := c.closed
	c.mu.Unlock()

	s := c.screen
	s.Clear()

	width, height := s.Size()
	laneWidth := width / (laneColumns + 1)
	if laneWidth < 6 {
		laneWidth = 6
	}
	rows := trackRows
	if rows > height-4 {
		rows = height - 4
	}
	if rows < 4 {
		rows = 4
	}

	laneStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for lane := 0; lane <= laneColumns; lane++ {
		x := lane * laneWidth
		for y := 0; y < rows; y++ {
			s.SetContent(x, y+1, '|', nil, laneStyle)
		}
	}

	// Hazards approach from the far end; WorldZ runs negative ahead of the
	// player, so map it onto the rows top-down.
	hazardStyle := tcell.StyleDefault.Foreground(tcell.ColorRed)
	for _, h := range snap.Hazards {
		row := hazardRow(h.WorldZ, snap.Player.Z, rows)
		if row < 0 || row >= rows {
			continue
		}
		x := h.Lane*laneWidth + laneWidth/2
		s.SetContent(x, row+1, '#', nil, hazardStyle)
	}

	playerStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	glyph := 'O'
	if snap.Player.Jumping {
		glyph = '^'
		playerStyle = playerStyle.Bold(true)
	}
	px := snap.Player.Lane*laneWidth + laneWidth/2
	s.SetContent(px, rows, glyph, nil, playerStyle)

	status := fmt.Sprintf("score %d  speed %.1f  rtt %dms", snap.Score, snap.Speed, rtt)
	if snap.GameOver {
		status = fmt.Sprintf("GAME OVER  score %d  (r to restart, q to quit)", snap.Score)
	} else if !snap.Running {
		status = "press r to start, q to quit"
	}
	if closed {
		status = "connection lost (q to quit)"
	}
	drawText(s, 0, rows+2, tcell.StyleDefault, status)

	s.Show()
}

// hazardRow maps a hazard's distance ahead of the player onto a screen row,
// row 0 being the spawn line and the last row the player.
func hazardRow(worldZ, playerZ float64, rows int) int {
	distance := playerZ - worldZ
	if distance < 0 {
		return rows - 1
	}
	const horizon = 54.0
	frac := 1 - distance/horizon
	if frac < 0 {
		frac = 0
	}
	return int(frac * float64(rows-1))
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}
