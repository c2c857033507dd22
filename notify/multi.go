package notify

// Publisher is the change-notification sink shared by all buses.
type Publisher interface {
	PublishChange(event, key string)
}

type multi []Publisher

// Multi combines several buses into one, publishing to each in order.
func Multi(pubs ...Publisher) Publisher {
	return multi(pubs)
}

func (m multi) PublishChange(event, key string) {
	for _, p := range m {
		p.PublishChange(event, key)
	}
}
