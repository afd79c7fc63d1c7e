// Cryptid tracker session
//
// A session mirrors one physical game of Cryptid: the table rebuilds the
// map in the browser, places structures, and records clues or answers as
// they come up. Everyone at the table can open the same session URL and
// edit the shared board; every accepted edit is rebroadcast as a full
// snapshot.
//
// Features:
// - WebSockets per session ID: /session/:id and /session/:id/ws
// - First connection to a session becomes the host
// - Only the host can reset the session
// - Clients identified by cookie (clientID)
// - Map built from the six 6x3 pieces, each optionally rotated 180°
// - Structures placed and cleared per tile, black (advanced) set included
// - Manual mode: enter clues directly, tiles failing any clue are dimmed
// - Deduce mode: record disc/cube answers per player, the tracker lists
//   each player's still-possible clues and dims impossible tiles
// - Sessions auto-reaped after configurable idle timeout
// - Random 8-char session IDs via crypto/rand, with collision check
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/lzander/cryptidhelper/cryptid"
)

// Messages coming from clients
type ClientMessage struct {
	Type      string                `json:"type"`                // "setup", "structure", "clue_add", "clue_delete", "answer", "mode", "reset"
	Pieces    []cryptid.PieceChoice `json:"pieces,omitempty"`    // setup
	Players   []cryptid.Player      `json:"players,omitempty"`   // setup
	Col       int                   `json:"col"`                 // structure / answer
	Row       int                   `json:"row"`                 // structure / answer
	Structure *cryptid.Structure    `json:"structure,omitempty"` // structure (absent clears the tile)
	Clue      *cryptid.Clue         `json:"clue,omitempty"`      // clue_add
	ClueIndex int                   `json:"clue_index"`          // clue_delete
	Player    string                `json:"player,omitempty"`    // answer
	Answer    cryptid.Answer        `json:"answer"`              // answer
	Manual    *bool                 `json:"manual,omitempty"`    // mode
}

// SessionInfoMessage is sent immediately on connect so the client knows
// its role.
type SessionInfoMessage struct {
	Type     string `json:"type"` // "session_info"
	ClientID string `json:"client_id"`
	IsHost   bool   `json:"is_host"`
}

// ErrorMessage is sent to a single client when its edit was rejected.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

// TileState is one tile of the snapshot, in offset coordinates.
type TileState struct {
	Col       int                       `json:"col"`
	Row       int                       `json:"row"`
	Terrain   cryptid.Terrain           `json:"terrain"`
	Animal    cryptid.Animal            `json:"animal"`
	Structure *cryptid.Structure        `json:"structure,omitempty"`
	Possible  bool                      `json:"possible"`
	Answers   map[string]cryptid.Answer `json:"answers,omitempty"` // player id → answer
}

// ClueView pairs a clue with its card wording for display.
type ClueView struct {
	cryptid.Clue
	Text string `json:"text"`
}

// PlayerDeduction lists the clues a player could still be holding.
type PlayerDeduction struct {
	Player string     `json:"player"` // player id
	Clues  []ClueView `json:"clues"`
}

// StateMessage is the full session snapshot, rebroadcast after every
// accepted edit.
type StateMessage struct {
	Type       string                `json:"type"` // "state"
	SetUp      bool                  `json:"set_up"`
	Manual     bool                  `json:"manual"`
	Pieces     []cryptid.PieceChoice `json:"pieces,omitempty"`
	Players    []cryptid.Player      `json:"players,omitempty"`
	Tiles      []TileState           `json:"tiles,omitempty"`
	Clues      []ClueView            `json:"clues,omitempty"`
	Deductions []PlayerDeduction     `json:"deductions,omitempty"`
	Remaining  int                   `json:"remaining"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	clientID string
}

type action struct {
	client *Client
	msg    ClientMessage
}

type Hub struct {
	id      string
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	actions  chan action

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
	hostID     string // cookie/clientID of the first connection

	pieces []cryptid.PieceChoice
	survey *cryptid.Survey
}

func newHub(sessionID string) *Hub {
	now := time.Now()
	return &Hub{
		id:         sessionID,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		actions:    make(chan action),
		createdAt:  now,
		lastActive: now,
	}
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.lastActive = time.Now()

			// First connection becomes host
			if h.hostID == "" {
				h.hostID = c.clientID
			}

			h.clients[c] = true

			c.send <- SessionInfoMessage{
				Type:     "session_info",
				ClientID: c.clientID,
				IsHost:   h.hostID == c.clientID,
			}
			c.send <- h.stateLocked()

			h.mu.Unlock()

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case a := <-h.actions:
			h.handleAction(cfg, a)
		}
	}
}

// handleAction applies one client edit and rebroadcasts the snapshot.
// Rejected edits are reported back to the offending client only.
func (h *Hub) handleAction(cfg *Config, a action) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if err := h.applyLocked(a.msg, a.client.clientID); err != nil {
		// The reaper may have already closed this client's channel.
		if !h.clients[a.client] {
			return
		}
		select {
		case a.client.send <- ErrorMessage{
			Type:    "error",
			Message: err.Error(),
		}:
		default:
			delete(h.clients, a.client)
			close(a.client.send)
		}
		return
	}

	logf(cfg, "GAMES: %s in %s", a.msg.Type, h.id)
	h.broadcastStateLocked()
}

// applyLocked mutates the session state. Callers hold h.mu.
func (h *Hub) applyLocked(msg ClientMessage, clientID string) error {
	switch msg.Type {
	case "setup":
		return h.setupLocked(msg)

	case "structure":
		return h.placeStructureLocked(msg)

	case "clue_add":
		if h.survey == nil {
			return fmt.Errorf("build the map first")
		}
		if msg.Clue == nil {
			return fmt.Errorf("no clue given")
		}
		clue := msg.Clue.Normalize()
		if err := clue.Validate(); err != nil {
			return err
		}
		for _, existing := range h.survey.Clues {
			if existing == clue {
				return fmt.Errorf("clue %q already entered", clue)
			}
		}
		h.survey.Clues = append(h.survey.Clues, clue)
		return nil

	case "clue_delete":
		if h.survey == nil {
			return fmt.Errorf("build the map first")
		}
		i := msg.ClueIndex
		if i < 0 || i >= len(h.survey.Clues) {
			return fmt.Errorf("no clue at index %d", i)
		}
		h.survey.Clues = append(h.survey.Clues[:i], h.survey.Clues[i+1:]...)
		return nil

	case "answer":
		if h.survey == nil {
			return fmt.Errorf("build the map first")
		}
		return h.survey.SetAnswer(msg.Player, cryptid.HexFromOffset(msg.Col, msg.Row), msg.Answer)

	case "mode":
		if h.survey == nil {
			return fmt.Errorf("build the map first")
		}
		if msg.Manual == nil {
			return fmt.Errorf("no mode given")
		}
		h.survey.Manual = *msg.Manual
		return nil

	case "reset":
		if clientID != h.hostID {
			return fmt.Errorf("only the host can reset the session")
		}
		h.pieces = nil
		h.survey = nil
		return nil
	}

	return fmt.Errorf("unknown message type %q", msg.Type)
}

func (h *Hub) setupLocked(msg ClientMessage) error {
	if len(msg.Pieces) != 6 {
		return fmt.Errorf("need 6 piece choices, got %d", len(msg.Pieces))
	}
	if err := cryptid.ValidatePlayers(msg.Players); err != nil {
		return err
	}

	var choices [6]cryptid.PieceChoice
	copy(choices[:], msg.Pieces)

	m, err := cryptid.BuildMap(choices)
	if err != nil {
		return err
	}

	h.pieces = msg.Pieces
	h.survey = cryptid.NewSurvey(m, msg.Players)
	return nil
}

func (h *Hub) placeStructureLocked(msg ClientMessage) error {
	if h.survey == nil {
		return fmt.Errorf("build the map first")
	}

	tile := h.survey.Map.At(cryptid.HexFromOffset(msg.Col, msg.Row))
	if tile == nil {
		return fmt.Errorf("no tile at (%d,%d)", msg.Col, msg.Row)
	}

	if msg.Structure == nil {
		tile.Structure = nil
		return nil
	}

	// One structure of each kind and color exists in the box.
	for i := range h.survey.Map.Tiles {
		other := &h.survey.Map.Tiles[i]
		if other == tile || other.Structure == nil {
			continue
		}
		if *other.Structure == *msg.Structure {
			other.Structure = nil
		}
	}

	tile.Structure = &cryptid.Structure{Kind: msg.Structure.Kind, Color: msg.Structure.Color}
	return nil
}

// stateLocked builds the snapshot. Callers hold h.mu.
func (h *Hub) stateLocked() StateMessage {
	state := StateMessage{
		Type: "state",
	}

	if h.survey == nil {
		return state
	}

	state.SetUp = true
	state.Manual = h.survey.Manual
	state.Pieces = h.pieces
	state.Players = h.survey.Players

	possible := h.survey.PossibleTiles()

	state.Tiles = make([]TileState, 0, len(h.survey.Map.Tiles))
	for i := range h.survey.Map.Tiles {
		tile := &h.survey.Map.Tiles[i]
		col, row := tile.Position.Offset()

		ts := TileState{
			Col:       col,
			Row:       row,
			Terrain:   tile.Terrain,
			Animal:    tile.Animal,
			Structure: tile.Structure,
			Possible:  possible[tile.Position],
		}
		for _, p := range h.survey.Players {
			if a, ok := h.survey.Answers[p.ID][tile.Position]; ok {
				if ts.Answers == nil {
					ts.Answers = make(map[string]cryptid.Answer)
				}
				ts.Answers[p.ID] = a
			}
		}
		state.Tiles = append(state.Tiles, ts)

		if ts.Possible {
			state.Remaining++
		}
	}

	for _, c := range h.survey.Clues {
		state.Clues = append(state.Clues, ClueView{Clue: c, Text: c.String()})
	}

	if !h.survey.Manual {
		for _, p := range h.survey.Players {
			if len(h.survey.Answers[p.ID]) == 0 {
				continue
			}
			pd := PlayerDeduction{Player: p.ID}
			for _, c := range h.survey.PossibleClues(p.ID) {
				pd.Clues = append(pd.Clues, ClueView{Clue: c, Text: c.String()})
			}
			state.Deductions = append(state.Deductions, pd)
		}
	}

	return state
}

// broadcastStateLocked assumes h.mu is already held.
func (h *Hub) broadcastStateLocked() {
	state := h.stateLocked()

	for client := range h.clients {
		select {
		case client.send <- state:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// closeAll disconnects all clients of this hub (used by reaper).
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const clientCookieName = "cryptidhelper_id"

func getOrSetClientID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(clientCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Println("rand.Read error:", err)
		return ""
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     clientCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// SessionManager holds a set of hubs keyed by session ID, so each
// $path/$sessionid is its own isolated board.
type SessionManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
}

func newSessionManager(idleTimeout time.Duration) *SessionManager {
	sm := &SessionManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: idleTimeout,
	}
	if idleTimeout > 0 {
		go sm.reaperLoop()
	}
	return sm
}

func (sm *SessionManager) getHub(cfg *Config, sessionID string) *Hub {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if hub, ok := sm.hubs[sessionID]; ok {
		return hub
	}

	hub := newHub(sessionID)
	sm.hubs[sessionID] = hub
	go hub.run(cfg)
	return hub
}

// newSessionID generates a crypto-random session ID and ensures it
// doesn't collide with existing sessions.
func (sm *SessionManager) newSessionID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		sm.mu.Lock()
		_, exists := sm.hubs[id]
		sm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes hubs that have been idle longer than
// idleTimeout.
func (sm *SessionManager) reaperLoop() {
	ticker := time.NewTicker(sm.idleTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-sm.idleTimeout)

		sm.mu.Lock()
		for id, hub := range sm.hubs {
			hub.mu.RLock()
			last := hub.lastActive
			hub.mu.RUnlock()

			if last.Before(cutoff) {
				delete(sm.hubs, id)
				go hub.closeAll()
			}
		}
		sm.mu.Unlock()
	}
}

// WebSocket handler that picks the hub based on :sessionid
func serveWSForManager(cfg *Config, sm *SessionManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sessionID := ps.ByName("sessionid")
		if sessionID == "" {
			http.Error(w, "missing session id", http.StatusBadRequest)
			return
		}

		clientID := getOrSetClientID(w, r)
		if clientID == "" {
			http.Error(w, "unable to assign client id", http.StatusInternalServerError)
			return
		}

		hub := sm.getHub(cfg, sessionID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 8),
			clientID: clientID,
		}

		hub.register <- client

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unreg <- c
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "setup", "structure", "clue_add", "clue_delete", "answer", "mode", "reset":
			h.actions <- action{
				client: c,
				msg:    msg,
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current session URL using
// go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("sessionid")
	if sessionID == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:sessionid/qr; strip trailing "/qr" to get the
	// session URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// ---- Static file paths ----

//go:embed webui/index.html
var indexHTML []byte

//go:embed webui/app.css
var trackerCSS []byte

//go:embed webui/app.js
var trackerJS []byte

func getIndexHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_ = getOrSetClientID(w, r)

		_, _ = w.Write(indexHTML)
	}
}

func getCssHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(trackerCSS)
	}
}

func getJsHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(trackerJS)
	}
}

// redirectNewSession handles GET /path by generating a new random
// session ID (with server-side collision detection) and redirecting to
// /path/:sessionid.
func redirectNewSession(cfg *Config, path string, sm *SessionManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sessionID := sm.newSessionID()
		logf(cfg, "GAMES: Created session %s/%s", path, sessionID)
		http.Redirect(w, r, path+"/"+sessionID, http.StatusTemporaryRedirect)
	}
}

// registerTracker sets up routes so that:
//   - $path                     → redirects to new random session (8-char ID)
//   - $path/:sessionid          → HTML client
//   - $path/:sessionid/ws       → WebSocket for that session
//   - $path/:sessionid/qr       → PNG QR code for that session URL
func registerTracker(cfg *Config, path string, mux *httprouter.Router) {
	sm := newSessionManager(cfg.sessionTimeout)

	// Root path → redirect to new random session
	mux.GET(path, redirectNewSession(cfg, path, sm))

	// Per-session client view (HTML)
	mux.GET(cfg.prefix+path+"/:sessionid", getIndexHandler(cfg))

	// Shared assets (no sessionid in route)
	mux.GET(cfg.prefix+"/assets/tracker/app.css", getCssHandler(cfg))
	mux.GET(cfg.prefix+"/assets/tracker/app.js", getJsHandler(cfg))

	// Per-session websocket
	mux.GET(cfg.prefix+path+"/:sessionid/ws", serveWSForManager(cfg, sm))

	// Per-session QR code
	mux.GET(cfg.prefix+path+"/:sessionid/qr", qrHandler)
}
