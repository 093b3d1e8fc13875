package roomhub

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"propchat/backend/internal/logging"
)

const roomChannelPrefix = "chat:room:"

// remoteEvent is the envelope published to Redis so sibling server
// processes can deliver a broadcast to their own local rooms.
type remoteEvent struct {
	Origin  string          `json:"origin"`
	RoomID  string          `json:"room_id"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// RedisHub extends a local hub with Redis pub/sub fan-out so broadcasts
// reach sessions connected to other server instances. Membership stays
// process-local; only broadcast traffic crosses instances.
type RedisHub struct {
	local      Hub
	rdb        *redis.Client
	instanceID string
	cancel     context.CancelFunc
}

// NewRedisHub wraps local and starts the pattern subscription for room
// channels.
func NewRedisHub(rdb *redis.Client, local Hub) (*RedisHub, error) {
	ctx, cancel := context.WithCancel(context.Background())

	h := &RedisHub{
		local:      local,
		rdb:        rdb,
		instanceID: uuid.New().String(),
		cancel:     cancel,
	}

	pubsub := rdb.PSubscribe(ctx, roomChannelPrefix+"*")
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		return nil, err
	}

	go h.listen(ctx, pubsub)
	return h, nil
}

func (h *RedisHub) Join(s Session, roomID string)  { h.local.Join(s, roomID) }
func (h *RedisHub) Leave(s Session, roomID string) { h.local.Leave(s, roomID) }
func (h *RedisHub) LeaveAll(s Session)             { h.local.LeaveAll(s) }

func (h *RedisHub) Broadcast(roomID, event string, payload any) {
	h.local.Broadcast(roomID, event, payload)
	h.publish(roomID, event, payload)
}

func (h *RedisHub) BroadcastExcept(roomID, event string, payload any, except Session) {
	h.local.BroadcastExcept(roomID, event, payload, except)
	// The excluded handle only exists on this instance, so siblings may
	// deliver to their whole room.
	h.publish(roomID, event, payload)
}

// Close stops the subscriber goroutine.
func (h *RedisHub) Close() error {
	h.cancel()
	return nil
}

func (h *RedisHub) publish(roomID, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.L().Error().Err(err).Str("event", event).Msg("failed to encode remote broadcast")
		return
	}

	envelope, err := json.Marshal(remoteEvent{
		Origin:  h.instanceID,
		RoomID:  roomID,
		Event:   event,
		Payload: data,
	})
	if err != nil {
		logging.L().Error().Err(err).Str("event", event).Msg("failed to encode remote envelope")
		return
	}

	if err := h.rdb.Publish(context.Background(), roomChannelPrefix+roomID, envelope).Err(); err != nil {
		// Best effort across instances too: local delivery already happened.
		logging.L().Warn().Err(err).Str("room_id", roomID).Msg("failed to publish broadcast to redis")
	}
}

func (h *RedisHub) listen(ctx context.Context, pubsub *redis.PubSub) {
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var remote remoteEvent
			if err := json.Unmarshal([]byte(msg.Payload), &remote); err != nil {
				logging.L().Debug().Err(err).Msg("discarding malformed remote event")
				continue
			}
			if remote.Origin == h.instanceID {
				continue
			}

			h.local.Broadcast(remote.RoomID, remote.Event, remote.Payload)
		}
	}
}
