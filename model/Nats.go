package model

// Message represents how a NATS follow event
// should be published
type Message struct {
	Type string `json:"type"`
	From string `json:"from"`
	To   string `json:"to"`
}
