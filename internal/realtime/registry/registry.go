package registry

import (
	"sync"

	"delivery-realtime/internal/apperr"
	"delivery-realtime/internal/domain"
)

// Registry holds the live mapping from rooms to member connections. It is the
// only mutable shared structure of the realtime core; every membership change
// goes through Join/Leave/RemoveConnection, everything else only reads.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*Connection
	rooms  map[domain.RoomKey]map[string]*Connection
	joined map[string]map[domain.RoomKey]struct{}
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		conns:  make(map[string]*Connection),
		rooms:  make(map[domain.RoomKey]map[string]*Connection),
		joined: make(map[string]map[domain.RoomKey]struct{}),
	}
}

// Add registers an admitted connection. Connections are added exactly once,
// by the gateway, after the identity was verified.
func (r *Registry) Add(conn *Connection) error {
	if conn == nil || conn.ID == "" {
		return apperr.ErrInvalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[conn.ID]; ok {
		return apperr.ErrConflict
	}
	r.conns[conn.ID] = conn
	r.joined[conn.ID] = make(map[domain.RoomKey]struct{})
	return nil
}

// Join adds a connection to a room.
func (r *Registry) Join(connID string, room domain.RoomKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[connID]
	if !ok {
		return apperr.ErrNotFound
	}
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[string]*Connection)
		r.rooms[room] = members
	}
	members[connID] = conn
	r.joined[connID][room] = struct{}{}
	return nil
}

// Leave removes a connection from a room. Leaving a room the connection never
// joined is a no-op.
func (r *Registry) Leave(connID string, room domain.RoomKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(connID, room)
}

func (r *Registry) leaveLocked(connID string, room domain.RoomKey) {
	if members, ok := r.rooms[room]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
	if rooms, ok := r.joined[connID]; ok {
		delete(rooms, room)
	}
}

// MembersOf returns a snapshot of the room's current members. The snapshot
// reflects every Join/Leave that completed before the call.
func (r *Registry) MembersOf(room domain.RoomKey) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.rooms[room]
	out := make([]*Connection, 0, len(members))
	for _, c := range members {
		out = append(out, c)
	}
	return out
}

// Rooms returns the rooms a connection has joined.
func (r *Registry) Rooms(connID string) []domain.RoomKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	joined := r.joined[connID]
	out := make([]domain.RoomKey, 0, len(joined))
	for room := range joined {
		out = append(out, room)
	}
	return out
}

// Get returns a connection by id, or nil when unknown.
func (r *Registry) Get(connID string) *Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conns[connID]
}

// RemoveConnection removes a connection from every room it had joined and
// forgets it, in O(rooms joined). It is idempotent: disconnect handlers may
// race with explicit unsubscribes, so removing an already-removed id is a no-op.
func (r *Registry) RemoveConnection(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rooms, ok := r.joined[connID]
	if !ok {
		return
	}
	for room := range rooms {
		if members, ok := r.rooms[room]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(r.rooms, room)
			}
		}
	}
	delete(r.joined, connID)
	delete(r.conns, connID)
}

// CloseRoom removes every member from the room and drops it. Used to release
// order rooms once the order reached a terminal status.
func (r *Registry) CloseRoom(room domain.RoomKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.rooms[room]
	if !ok {
		return
	}
	for connID := range members {
		if rooms, ok := r.joined[connID]; ok {
			delete(rooms, room)
		}
	}
	delete(r.rooms, room)
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
