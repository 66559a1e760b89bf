package surface

import (
	"encoding/json"
	"fmt"
)

// Kind names a message on the channel. The set is closed.
type Kind string

// Message kinds.
const (
	KindUpdate      Kind = "update"      // host -> surface: new markup and stylesheet
	KindCheckReady  Kind = "checkReady"  // host -> surface: ask for readyStatus
	KindReady       Kind = "ready"       // surface -> host: seq applied and settled
	KindReadyStatus Kind = "readyStatus" // surface -> host: last settled seq
)

// Message is the only thing that crosses between host and surface.
// Seq orders updates from one host; zero means "nothing settled yet".
type Message struct {
	Kind       Kind   `json:"kind"`
	Seq        uint64 `json:"seq"`
	Markup     string `json:"markup,omitempty"`
	Stylesheet string `json:"stylesheet,omitempty"`
}

// Inbound reports whether the host may send k.
func (k Kind) Inbound() bool {
	return k == KindUpdate || k == KindCheckReady
}

// Outbound reports whether the surface may send k.
func (k Kind) Outbound() bool {
	return k == KindReady || k == KindReadyStatus
}

// DecodeSignal parses a message raised by the surface. Anything other than
// a ready or readyStatus message is rejected.
func DecodeSignal(payload string) (Message, error) {
	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if !msg.Kind.Outbound() {
		return Message{}, fmt.Errorf("%w: unexpected kind %q", ErrInvalidMessage, msg.Kind)
	}
	return msg, nil
}
