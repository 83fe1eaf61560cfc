package domain

import "encoding/json"

const (
	TopicConfirmation = "confirmation"

	actionSubscribe = "subscribe"
)

// ConfirmationMessage is a block confirmation pushed by the live feed.
type ConfirmationMessage struct {
	Topic   string              `json:"topic"`
	Message ConfirmationPayload `json:"message"`
}

type ConfirmationPayload struct {
	Block  ConfirmedBlock `json:"block"`
	Hash   string         `json:"hash"`
	Amount string         `json:"amount"`
}

type ConfirmedBlock struct {
	Subtype       string `json:"subtype"`
	LinkAsAccount string `json:"link_as_account"`
}

// IsIncomingSend reports whether the message confirms a send block, the only
// kind of block that makes something receivable.
func (m ConfirmationMessage) IsIncomingSend() bool {
	return m.Topic == TopicConfirmation &&
		m.Message.Block.Subtype == string(SubtypeSend)
}

// PendingTransaction returns the receivable reference carried by the message.
func (m ConfirmationMessage) PendingTransaction() PendingTransaction {
	return PendingTransaction{
		Hash:   m.Message.Hash,
		Amount: m.Message.Amount,
	}
}

// ParseConfirmationMessage decodes a raw feed message.
func ParseConfirmationMessage(data []byte) (ConfirmationMessage, error) {
	var msg ConfirmationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ConfirmationMessage{}, NewWebSocketMessageError(err)
	}
	return msg, nil
}

// SubscribeMessage is the control message (re)subscribing the feed to
// confirmations of the given accounts.
type SubscribeMessage struct {
	Action  string           `json:"action"`
	Topic   string           `json:"topic"`
	Ack     bool             `json:"ack"`
	Options SubscribeOptions `json:"options"`
}

type SubscribeOptions struct {
	Accounts []string `json:"accounts"`
}

func NewSubscribeMessage(accounts []string) SubscribeMessage {
	if accounts == nil {
		accounts = []string{}
	}
	return SubscribeMessage{
		Action:  actionSubscribe,
		Topic:   TopicConfirmation,
		Ack:     true,
		Options: SubscribeOptions{Accounts: accounts},
	}
}
