package value

// Actor identifies who initiated a market operation in the activity feed.
// Bot actors reuse a small pool of labels and own no wallet.
type Actor struct {
	Label string
	Bot   bool
}

func User(id string) Actor {
	return Actor{Label: id}
}

func Bot(label string) Actor {
	return Actor{Label: label, Bot: true}
}
