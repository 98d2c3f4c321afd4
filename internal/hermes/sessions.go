package hermes

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownSubject = errors.New("not a session event subject")

// SessionEvent is one decoded session event. Exactly one of the payload fields is set,
// matching Kind.
type SessionEvent struct {
	Subject   string
	SessionID string
	Kind      string

	Created           *SessionCreatedEvent
	RankChanged       *RankChangedEvent
	WeightsCalculated *WeightsCalculatedEvent
}

// ParseSessionSubject splits apportion.session.<id>.<kind>.
func ParseSessionSubject(subject string) (sessionID, kind string, ok bool) {
	rest, found := strings.CutPrefix(subject, sessionPrefix)
	if !found {
		return "", "", false
	}
	sessionID, kind, found = strings.Cut(rest, ".")
	if !found || sessionID == "" || strings.Contains(kind, ".") {
		return "", "", false
	}
	return sessionID, kind, true
}

// DecodeSessionEvent parses the payload published on subject.
func DecodeSessionEvent(subject string, data []byte) (SessionEvent, error) {
	id, kind, ok := ParseSessionSubject(subject)
	if !ok {
		return SessionEvent{}, fmt.Errorf("%q: %w", subject, ErrUnknownSubject)
	}
	evt := SessionEvent{Subject: subject, SessionID: id, Kind: kind}

	var target interface{}
	switch kind {
	case KindCreated:
		evt.Created = &SessionCreatedEvent{}
		target = evt.Created
	case KindRankChanged:
		evt.RankChanged = &RankChangedEvent{}
		target = evt.RankChanged
	case KindWeightsCalculated:
		evt.WeightsCalculated = &WeightsCalculatedEvent{}
		target = evt.WeightsCalculated
	default:
		return SessionEvent{}, fmt.Errorf("%q: %w", subject, ErrUnknownSubject)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return SessionEvent{}, fmt.Errorf("decode %s: %w", subject, err)
	}
	return evt, nil
}

// SubscribeSessions subscribes to every session event kind and hands decoded events
// to handler. Payloads that fail to decode go to onError.
func SubscribeSessions(c Client, handler func(SessionEvent), onError func(subject string, err error)) error {
	for _, subject := range []string{SubjectCreatedAll, SubjectRankChangedAll, SubjectCalculatedAll} {
		err := c.Subscribe(subject, func(subject string, data []byte) {
			evt, err := DecodeSessionEvent(subject, data)
			if err != nil {
				onError(subject, err)
				return
			}
			handler(evt)
		})
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", subject, err)
		}
	}
	return nil
}
