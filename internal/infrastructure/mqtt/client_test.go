package mqtt

import (
	"bytes"
	"errors"
	"testing"
)

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "status", got: topics.Status(), want: "iiod/status"},
		{name: "opened", got: topics.DeviceOpened("iio:device0"), want: "iiod/device/iio:device0/opened"},
		{name: "closed", got: topics.DeviceClosed("iio:device0"), want: "iiod/device/iio:device0/closed"},
		{name: "error", got: topics.DeviceError("iio:device0"), want: "iiod/device/iio:device0/error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("topic = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestPublishValidation(t *testing.T) {
	c := &Client{}

	if err := c.Publish("", []byte("x"), 1, false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: %v, want ErrInvalidTopic", err)
	}
	if err := c.Publish("iiod/status", []byte("x"), 3, false); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("bad QoS: %v, want ErrInvalidQoS", err)
	}
	oversized := bytes.Repeat([]byte("x"), maxPayloadSize+1)
	if err := c.Publish("iiod/status", oversized, 1, false); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("oversized payload: %v, want ErrPublishFailed", err)
	}
	if err := c.Publish("iiod/status", []byte("x"), 1, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected publish: %v, want ErrNotConnected", err)
	}
}
