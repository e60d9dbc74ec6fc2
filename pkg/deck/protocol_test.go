package deck

import "testing"

func TestValidateInput(t *testing.T) {
	msg := InputMessage{ID: "id", TS: 1, From: "tester", Pressed: []string{"a"}}
	if err := ValidateInput(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg.Pressed = nil
	if err := ValidateInput(msg); err == nil {
		t.Fatalf("expected button error")
	}
}

func TestValidateInputMissingFields(t *testing.T) {
	if err := ValidateInput(InputMessage{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDecodeInput(t *testing.T) {
	msg, err := DecodeInput([]byte(`{"id":"1","ts":5,"from":"phone","pressed":["a","plus"]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(msg.Pressed) != 2 || msg.Pressed[1] != "plus" {
		t.Fatalf("unexpected pressed %v", msg.Pressed)
	}
	if _, err := DecodeInput([]byte(`{`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestTopics(t *testing.T) {
	if got := TopicState(BaseTopic, "den"); got != "deck/v1/node/den/state" {
		t.Fatalf("unexpected state topic %s", got)
	}
	if got := TopicInput(BaseTopic, "den"); got != "deck/v1/node/den/input" {
		t.Fatalf("unexpected input topic %s", got)
	}
	if got := TopicPresence(BaseTopic, "den"); got != "deck/v1/node/den/presence" {
		t.Fatalf("unexpected presence topic %s", got)
	}
}
