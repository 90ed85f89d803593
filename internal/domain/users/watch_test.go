package users

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusNotifierDeliversToSubscribedUID(t *testing.T) {
	n := NewStatusNotifier()

	chA, cancelA := n.Subscribe(1)
	defer cancelA()
	chB, cancelB := n.Subscribe(2)
	defer cancelB()

	venc := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	n.Publish(StatusChange{UID: 1, StatusAssinatura: StatusAtivo, ProximoVencimento: &venc})

	select {
	case got := <-chA:
		assert.Equal(t, uint(1), got.UID)
		assert.Equal(t, StatusAtivo, got.StatusAssinatura)
		require.NotNil(t, got.ProximoVencimento)
		assert.Equal(t, venc, *got.ProximoVencimento)
	default:
		t.Fatal("subscriber for uid 1 got nothing")
	}

	select {
	case got := <-chB:
		t.Fatalf("subscriber for uid 2 got someone else's change: %+v", got)
	default:
	}
}

func TestStatusNotifierFanOut(t *testing.T) {
	n := NewStatusNotifier()

	ch1, cancel1 := n.Subscribe(7)
	defer cancel1()
	ch2, cancel2 := n.Subscribe(7)
	defer cancel2()

	n.Publish(StatusChange{UID: 7, StatusAssinatura: StatusPagamentoAtrasado})

	for _, ch := range []<-chan StatusChange{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, StatusPagamentoAtrasado, got.StatusAssinatura)
		default:
			t.Fatal("every subscriber of the uid must receive the change")
		}
	}
}

func TestStatusNotifierCancelClosesChannel(t *testing.T) {
	n := NewStatusNotifier()

	ch, cancel := n.Subscribe(3)
	cancel()

	_, open := <-ch
	assert.False(t, open, "cancel must close the channel")

	// publishing after cancel must not panic or deliver
	n.Publish(StatusChange{UID: 3, StatusAssinatura: StatusInativo})

	// double cancel is safe
	cancel()
}

func TestStatusNotifierSlowConsumerDropsInsteadOfBlocking(t *testing.T) {
	n := NewStatusNotifier()

	ch, cancel := n.Subscribe(9)
	defer cancel()

	// fill the buffer and then some; Publish must never block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 32; i++ {
			n.Publish(StatusChange{UID: 9, StatusAssinatura: StatusAtivo})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow consumer")
	}
	assert.Equal(t, 8, len(ch), "buffer holds the first updates, the rest drop")
}
