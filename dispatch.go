package jsonkv

// Bus receives change notifications. Implementations fan the single call
// out however they like (in-process channels, Kafka, ...); the core's
// contract ends at PublishChange.
type Bus interface {
	PublishChange(event, key string)
}

// Dispatcher maps a command's aggregate result to zero or one bus
// publications. It holds no state across commands.
type Dispatcher struct {
	bus Bus
}

func NewDispatcher(bus Bus) *Dispatcher {
	return &Dispatcher{bus: bus}
}

// Dispatch publishes exactly one event when res is Applied, and nothing
// otherwise. Emission is fire-and-forget.
func (d *Dispatcher) Dispatch(res Result, cmd Command, key string) {
	if d == nil || d.bus == nil {
		return
	}
	if res.Kind != Applied || res.Count < 1 {
		return
	}
	d.bus.PublishChange(cmd.EventName(), key)
}
