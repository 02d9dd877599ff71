package response

// Error is the wire shape of every failure body.
type Error struct {
	Error string `json:"error"`
}

func NewError(msg string) Error {
	return Error{Error: msg}
}

// Ack is the wire shape of delete/waitlist acknowledgments.
type Ack struct {
	Success bool `json:"success"`
}

func Success() Ack {
	return Ack{Success: true}
}
