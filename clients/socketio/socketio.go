package socketio

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/zishang520/socket.io/v2/socket"

	"streambingo/clients"
	"streambingo/core"
	"streambingo/models"
	"streambingo/utils"
)

type TokenValidatorFunc func(token string) (string, error)

// SocketIOBroadcaster is the fan-out hub. It tracks connected viewers, their
// episode-room membership and per-user connection sets, and emits deltas
// fire-and-forget: a failed send is logged and swallowed, clients reconcile
// via periodic refetch.
type SocketIOBroadcaster struct {
	server         *socket.Server
	mutex          sync.RWMutex
	clients        []*clients.Client
	clientsByID    map[string]*clients.Client
	clientsByUser  map[string][]*clients.Client
	episodeRooms   map[string]map[string]*clients.Client
	tokenValidator TokenValidatorFunc
}

func NewSocketIOBroadcaster(tokenValidator TokenValidatorFunc) *SocketIOBroadcaster {
	server := socket.NewServer(nil, nil)
	broadcaster := &SocketIOBroadcaster{
		server:         server,
		clients:        make([]*clients.Client, 0),
		clientsByID:    make(map[string]*clients.Client),
		clientsByUser:  make(map[string][]*clients.Client),
		episodeRooms:   make(map[string]map[string]*clients.Client),
		tokenValidator: tokenValidator,
	}

	err := server.On("connection", func(sockets ...any) {
		sock := sockets[0].(*socket.Socket)
		broadcaster.handleConnection(sock)
	})
	utils.AssertInvariant(err == nil, fmt.Sprintf("Failed to register connection handler: %v", err))

	return broadcaster
}

func (b *SocketIOBroadcaster) RegisterWithRouter(router *mux.Router) {
	log.Printf("🚀 Registering Socket.IO server on /socket.io/ endpoint")
	router.PathPrefix("/socket.io/").Handler(b.server.ServeHandler(nil))
	log.Printf("✅ Socket.IO server registered on /socket.io/")
}

// getHeader performs a case-insensitive lookup for a header in the handshake
// headers map
func getHeader(headers map[string][]string, headerName string) (string, bool) {
	for key, value := range headers {
		if strings.EqualFold(key, headerName) {
			if len(value) > 0 && value[0] != "" {
				return value[0], true
			}
		}
	}
	return "", false
}

func (b *SocketIOBroadcaster) handleConnection(sock *socket.Socket) {
	log.Printf("🔗 New Socket.IO connection attempt, socket ID: %s", sock.Id())

	headers := sock.Handshake().Headers
	token, exists := getHeader(headers, "X-BINGO-VIEWER-TOKEN")
	if !exists {
		log.Printf("❌ Rejecting Socket.IO connection: missing X-BINGO-VIEWER-TOKEN header")
		sock.Disconnect(true)
		return
	}

	userID, err := b.tokenValidator(token)
	if err != nil {
		log.Printf("❌ Rejecting Socket.IO connection: invalid viewer token: %v", err)
		sock.Disconnect(true)
		return
	}

	client := &clients.Client{
		ID:     core.NewID("cl"),
		Socket: sock,
		UserID: userID,
	}
	b.addClient(client)
	log.Printf("✅ Socket.IO viewer connected with ID: %s, user: %s", client.ID, userID)

	err = sock.On("bingo_message", func(data ...any) {
		if len(data) == 0 {
			log.Printf("❌ No message data received for client %s", client.ID)
			return
		}
		b.handleControlMessage(client, data[0])
	})
	utils.AssertInvariant(err == nil, fmt.Sprintf("Failed to set up message handler for client %s: %v", client.ID, err))

	err = sock.On("disconnect", func(data ...any) {
		log.Printf("🔌 Socket.IO connection closed for client %s", client.ID)
		b.removeClient(client.ID)
	})
	utils.AssertInvariant(err == nil, fmt.Sprintf("Failed to set up disconnect handler for client %s: %v", client.ID, err))
}

// handleControlMessage processes episode:join / episode:leave room control
// messages sent by viewers. Anything else is ignored.
func (b *SocketIOBroadcaster) handleControlMessage(client *clients.Client, raw any) {
	data, err := json.Marshal(raw)
	if err != nil {
		log.Printf("❌ Failed to re-marshal control message from client %s: %v", client.ID, err)
		return
	}

	var msg models.BroadcastMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("❌ Failed to parse control message from client %s: %v", client.ID, err)
		return
	}

	payloadBytes, err := json.Marshal(msg.Payload)
	if err != nil {
		log.Printf("❌ Failed to re-marshal control payload from client %s: %v", client.ID, err)
		return
	}
	var payload models.EpisodeRoomPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		log.Printf("❌ Failed to parse room payload from client %s: %v", client.ID, err)
		return
	}
	if payload.EpisodeID == "" {
		log.Printf("❌ Control message from client %s has no episode_id", client.ID)
		return
	}

	switch msg.Type {
	case models.MessageTypeEpisodeJoin:
		b.joinEpisode(client, payload.EpisodeID)
	case models.MessageTypeEpisodeLeave:
		b.leaveEpisode(client, payload.EpisodeID)
	default:
		log.Printf("⚠️ Ignoring unknown control message type %q from client %s", msg.Type, client.ID)
	}
}

func (b *SocketIOBroadcaster) addClient(client *clients.Client) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.clients = append(b.clients, client)
	b.clientsByID[client.ID] = client
	b.clientsByUser[client.UserID] = append(b.clientsByUser[client.UserID], client)
	log.Printf("📊 Client %s added to active connections. Total clients: %d", client.ID, len(b.clients))
}

func (b *SocketIOBroadcaster) removeClient(clientID string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	client, ok := b.clientsByID[clientID]
	if !ok {
		log.Printf("⚠️ Attempted to remove client %s but not found in active connections", clientID)
		return
	}

	delete(b.clientsByID, clientID)
	for i, c := range b.clients {
		if c.ID == clientID {
			b.clients = append(b.clients[:i], b.clients[i+1:]...)
			break
		}
	}

	userClients := b.clientsByUser[client.UserID]
	for i, c := range userClients {
		if c.ID == clientID {
			b.clientsByUser[client.UserID] = append(userClients[:i], userClients[i+1:]...)
			break
		}
	}
	if len(b.clientsByUser[client.UserID]) == 0 {
		delete(b.clientsByUser, client.UserID)
	}

	for episodeID, room := range b.episodeRooms {
		delete(room, clientID)
		if len(room) == 0 {
			delete(b.episodeRooms, episodeID)
		}
	}

	log.Printf("🔌 Socket.IO client %s disconnected. Remaining clients: %d", clientID, len(b.clients))
}

func (b *SocketIOBroadcaster) joinEpisode(client *clients.Client, episodeID string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	room, ok := b.episodeRooms[episodeID]
	if !ok {
		room = make(map[string]*clients.Client)
		b.episodeRooms[episodeID] = room
	}
	room[client.ID] = client
	log.Printf("🔗 Client %s joined episode room %s (%d members)", client.ID, episodeID, len(room))
}

func (b *SocketIOBroadcaster) leaveEpisode(client *clients.Client, episodeID string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	room, ok := b.episodeRooms[episodeID]
	if !ok {
		return
	}
	delete(room, client.ID)
	if len(room) == 0 {
		delete(b.episodeRooms, episodeID)
	}
	log.Printf("🔌 Client %s left episode room %s", client.ID, episodeID)
}

// BroadcastToEpisode delivers a message to every connection currently joined
// to the episode's room. Send failures are swallowed.
func (b *SocketIOBroadcaster) BroadcastToEpisode(episodeID string, msg any) {
	b.mutex.RLock()
	room := b.episodeRooms[episodeID]
	members := make([]*clients.Client, 0, len(room))
	for _, client := range room {
		members = append(members, client)
	}
	b.mutex.RUnlock()

	log.Printf("📤 Broadcasting to episode %s (%d members)", episodeID, len(members))
	for _, client := range members {
		if err := client.Socket.Emit("bingo_message", msg); err != nil {
			log.Printf("❌ Failed to send to client %s, dropping: %v", client.ID, err)
		}
	}
}

// SendToUser delivers a message to every connection of one user and nobody
// else, so per-card state never leaks to other subscribers.
func (b *SocketIOBroadcaster) SendToUser(userID string, msg any) {
	b.mutex.RLock()
	userClients := append([]*clients.Client(nil), b.clientsByUser[userID]...)
	b.mutex.RUnlock()

	if len(userClients) == 0 {
		log.Printf("📭 No active connections for user %s, message dropped", userID)
		return
	}

	for _, client := range userClients {
		if err := client.Socket.Emit("bingo_message", msg); err != nil {
			log.Printf("❌ Failed to send to client %s, dropping: %v", client.ID, err)
		}
	}
}

// EpisodeRoomSize reports current membership of an episode room.
func (b *SocketIOBroadcaster) EpisodeRoomSize(episodeID string) int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.episodeRooms[episodeID])
}
