package service

import (
	"slices"
	"sync"

	"github.com/Wyydra/huddle/internal/core/domain"
)

type participant struct {
	mu   sync.Mutex
	id   domain.ParticipantID
	room domain.RoomName
	live bool
}

type room struct {
	mu      sync.Mutex
	name    domain.RoomName
	members []domain.ParticipantID
	// closed is set once the last member left and the room was removed
	// from the index. A joiner holding a stale pointer must look it up again.
	closed bool
}

// Stats is a point-in-time view of the registry size.
type Stats struct {
	Rooms        int `json:"rooms"`
	Participants int `json:"participants"`
}

// Registry maps room names to their members.
//
// Lock order is participant -> room. The index lock only guards the two maps
// and is never held while waiting on a room or participant lock, so rooms
// are serialized individually and different rooms never contend.
type Registry struct {
	mu           sync.Mutex
	rooms        map[domain.RoomName]*room
	participants map[domain.ParticipantID]*participant
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:        make(map[domain.RoomName]*room),
		participants: make(map[domain.ParticipantID]*participant),
	}
}

// Connect records a live participant with no room.
func (r *Registry) Connect(id domain.ParticipantID) {
	r.participant(id)
}

// Join adds id to the named room, creating it if needed. The returned event
// is addressed to the members that were already present.
//
// Callers own the id lifecycle: once Disconnect returned, the id is
// forgotten and a later Join starts a new session under it. Only a join
// already in flight when Disconnect runs is refused.
func (r *Registry) Join(id domain.ParticipantID, name domain.RoomName) (domain.MembershipEvent, error) {
	if name == "" {
		return domain.MembershipEvent{}, domain.ErrEmptyRoomName
	}

	return r.join(r.participant(id), name)
}

// join refuses records already disconnected, so a join racing with the
// connection teardown can never leave a ghost member behind.
func (r *Registry) join(p *participant, name domain.RoomName) (domain.MembershipEvent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.live {
		return domain.MembershipEvent{}, domain.ErrParticipantGone
	}
	if p.room != "" {
		return domain.MembershipEvent{}, domain.ErrAlreadyInRoom
	}

	rm := r.lockRoom(name)
	defer rm.mu.Unlock()

	recipients := slices.Clone(rm.members)
	rm.members = append(rm.members, p.id)
	p.room = name

	return domain.NewMembershipEvent(domain.EventJoined, name, p.id, recipients), nil
}

// Leave removes id from its room. It reports false when id was not in a
// room, which makes duplicate disconnect signals harmless.
func (r *Registry) Leave(id domain.ParticipantID) (domain.MembershipEvent, bool) {
	r.mu.Lock()
	p, ok := r.participants[id]
	r.mu.Unlock()
	if !ok {
		return domain.MembershipEvent{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return r.leaveLocked(p)
}

// Disconnect leaves the current room, marks the participant dead and forgets
// it.
func (r *Registry) Disconnect(id domain.ParticipantID) (domain.MembershipEvent, bool) {
	r.mu.Lock()
	p, ok := r.participants[id]
	r.mu.Unlock()
	if !ok {
		return domain.MembershipEvent{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ev, left := r.leaveLocked(p)
	p.live = false

	r.mu.Lock()
	if r.participants[id] == p {
		delete(r.participants, id)
	}
	r.mu.Unlock()

	return ev, left
}

// MembersOf returns the members of name in arrival order.
func (r *Registry) MembersOf(name domain.RoomName) []domain.ParticipantID {
	r.mu.Lock()
	rm, ok := r.rooms[name]
	r.mu.Unlock()
	if !ok {
		return []domain.ParticipantID{}
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.closed {
		return []domain.ParticipantID{}
	}
	return slices.Clone(rm.members)
}

// RoomOf returns the room id currently belongs to.
func (r *Registry) RoomOf(id domain.ParticipantID) (domain.RoomName, bool) {
	r.mu.Lock()
	p, ok := r.participants[id]
	r.mu.Unlock()
	if !ok {
		return "", false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.room, p.room != ""
}

func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{Rooms: len(r.rooms), Participants: len(r.participants)}
}

// leaveLocked must be called with p.mu held.
func (r *Registry) leaveLocked(p *participant) (domain.MembershipEvent, bool) {
	if p.room == "" {
		return domain.MembershipEvent{}, false
	}

	name := p.room
	r.mu.Lock()
	rm, ok := r.rooms[name]
	r.mu.Unlock()
	if !ok {
		// Unreachable while p.room is set: the room cannot empty without p leaving.
		p.room = ""
		return domain.MembershipEvent{}, false
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.members = slices.DeleteFunc(rm.members, func(m domain.ParticipantID) bool {
		return m == p.id
	})
	p.room = ""

	if len(rm.members) == 0 {
		rm.closed = true
		r.mu.Lock()
		if r.rooms[name] == rm {
			delete(r.rooms, name)
		}
		r.mu.Unlock()
	}

	return domain.NewMembershipEvent(domain.EventLeft, name, p.id, slices.Clone(rm.members)), true
}

func (r *Registry) participant(id domain.ParticipantID) *participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[id]
	if !ok {
		p = &participant{id: id, live: true}
		r.participants[id] = p
	}
	return p
}

// lockRoom returns the live room called name with its lock held, creating
// it when absent. A new room is locked before it is published in the index,
// so nobody observes it empty.
func (r *Registry) lockRoom(name domain.RoomName) *room {
	for {
		r.mu.Lock()
		rm, ok := r.rooms[name]
		if !ok {
			rm = &room{name: name}
			rm.mu.Lock()
			r.rooms[name] = rm
			r.mu.Unlock()
			return rm
		}
		r.mu.Unlock()

		rm.mu.Lock()
		if !rm.closed {
			return rm
		}
		rm.mu.Unlock()
	}
}
