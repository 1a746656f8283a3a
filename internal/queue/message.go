package queue

import "encoding/json"

// Message is the parse task sent to downstream queue consumers. OwnerID
// rides along so the worker can load the candidate through the same
// owner-scoped repo path the API uses.
type Message struct {
	CandidateID string `json:"candidateId"`
	OwnerID     string `json:"ownerId"`
	RequestID   string `json:"requestId"`
	EnqueuedAt  string `json:"enqueuedAt"`
	Version     int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
