package reconciler

import (
	"bytes"
	"encoding/json"
	"strings"

	domainerrors "mentorpay/internal/errors"
)

const (
	TypeRequirementsUpdated     = "v2.core.account[requirements].updated"
	TypeCapabilityStatusUpdated = "v2.core.account[configuration.recipient].capability_status_updated"
	TypeAccountUpdated          = "account.updated"
	TypeCapabilityUpdated       = "capability.updated"

	thinEventObject     = "v2.core.event"
	accountObjectPrefix = "acct_"
)

// Event is the closed set of events the reconciler acts on.
type Event interface {
	isEvent()
}

// RequirementsUpdated asks for the account's requirements to be recomputed.
type RequirementsUpdated struct {
	AccountID string
}

// CapabilityStatusUpdated asks for the account's capability to be recomputed.
type CapabilityStatusUpdated struct {
	AccountID string
}

// Unhandled is acknowledged and otherwise ignored.
type Unhandled struct {
	Type string
}

func (RequirementsUpdated) isEvent()     {}
func (CapabilityStatusUpdated) isEvent() {}
func (Unhandled) isEvent()               {}

// Delivery is a verified webhook body before dispatch.
type Delivery struct {
	ID        string
	Type      string
	AccountID string
	Thin      bool
	Livemode  bool
}

type envelope struct {
	ID            string          `json:"id"`
	Object        string          `json:"object"`
	Type          string          `json:"type"`
	Account       string          `json:"account"`
	Context       string          `json:"context"`
	Livemode      bool            `json:"livemode"`
	RelatedObject *relatedObject  `json:"related_object"`
	Data          json.RawMessage `json:"data"`
}

type relatedObject struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type eventData struct {
	Object struct {
		ID      string `json:"id"`
		Object  string `json:"object"`
		Account string `json:"account"`
	} `json:"object"`
}

// ParseDelivery decodes a verified webhook body. Snapshot events name their
// account directly or in data.object; thin events only through
// related_object or context.
func ParseDelivery(payload []byte) (*Delivery, error) {
	var env envelope
	dec := json.NewDecoder(bytes.NewReader(payload))
	if err := dec.Decode(&env); err != nil {
		return nil, domainerrors.InvalidArgument("webhook body is not a JSON event")
	}
	if env.ID == "" || env.Type == "" {
		return nil, domainerrors.InvalidArgument("webhook event is missing id or type")
	}

	d := &Delivery{
		ID:       env.ID,
		Type:     env.Type,
		Thin:     env.Object == thinEventObject,
		Livemode: env.Livemode,
	}

	switch {
	case env.Account != "":
		d.AccountID = env.Account
	case env.RelatedObject != nil && strings.HasPrefix(env.RelatedObject.ID, accountObjectPrefix):
		d.AccountID = env.RelatedObject.ID
	case strings.HasPrefix(env.Context, accountObjectPrefix):
		d.AccountID = env.Context
	case len(env.Data) > 0:
		var data eventData
		if err := json.Unmarshal(env.Data, &data); err == nil {
			if data.Object.Object == "account" {
				d.AccountID = data.Object.ID
			} else {
				d.AccountID = data.Object.Account
			}
		}
	}
	return d, nil
}

// Classify maps a delivery onto the closed event set.
func Classify(d *Delivery) Event {
	switch d.Type {
	case TypeRequirementsUpdated, TypeAccountUpdated:
		return RequirementsUpdated{AccountID: d.AccountID}
	case TypeCapabilityStatusUpdated, TypeCapabilityUpdated:
		return CapabilityStatusUpdated{AccountID: d.AccountID}
	default:
		return Unhandled{Type: d.Type}
	}
}
