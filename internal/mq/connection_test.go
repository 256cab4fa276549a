package mq

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestReconnectDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{20, 30 * time.Second},
	}

	for _, tt := range tests {
		if got := reconnectDelay(tt.attempt); got != tt.want {
			t.Errorf("reconnectDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestWithChannel_NoChannel(t *testing.T) {
	c := &Connection{
		logger:   slog.Default(),
		closedCh: make(chan struct{}),
	}

	err := c.WithChannel(context.Background(), func(*amqp.Channel) error {
		t.Fatal("fn must not run without a channel")
		return nil
	})
	if !errors.Is(err, ErrNoChannel) {
		t.Errorf("expected ErrNoChannel, got %v", err)
	}
}

func TestWithChannel_Closed(t *testing.T) {
	c := &Connection{
		logger:   slog.Default(),
		closedCh: make(chan struct{}),
		closed:   true,
	}

	err := c.WithChannel(context.Background(), func(*amqp.Channel) error {
		t.Fatal("fn must not run on a closed connection")
		return nil
	})
	if !errors.Is(err, ErrBusClosed) {
		t.Errorf("expected ErrBusClosed, got %v", err)
	}
}

func TestWithChannel_CancelledContext(t *testing.T) {
	c := &Connection{
		logger:   slog.Default(),
		closedCh: make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.WithChannel(ctx, func(*amqp.Channel) error {
		t.Fatal("fn must not run with a cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestIsConnected_NoConnection(t *testing.T) {
	c := &Connection{logger: slog.Default()}
	if c.IsConnected() {
		t.Error("connection without dial must not report connected")
	}
}
