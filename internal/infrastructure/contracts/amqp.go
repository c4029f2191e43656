package contracts

// AmqpMessage is the envelope published for every activity event.
type AmqpMessage struct {
	OwnerID string `json:"ownerId"`
	Data    []byte `json:"data"`
}

// Routing keys
const (
	EventUserCreated    = "user.created"
	EventExerciseLogged = "exercise.logged"
)

// AllEvents lists every routing key the tracker publishes.
var AllEvents = []string{EventUserCreated, EventExerciseLogged}
