package queue_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/anggasct/phaselight/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstant[T any](opts ...queue.Option) *queue.Queue[T] {
	opts = append([]queue.Option{queue.WithSendLatency(0)}, opts...)
	return queue.New[T](opts...)
}

func TestQueue_Order(t *testing.T) {
	t.Run("FIFO removes oldest first", func(t *testing.T) {
		q := newInstant[int]()
		for i := 1; i <= 3; i++ {
			q.Send(i)
		}

		assert.Equal(t, queue.FIFO, q.Order())
		assert.Equal(t, 1, q.Receive())
		assert.Equal(t, 2, q.Receive())
		assert.Equal(t, 3, q.Receive())
	})

	t.Run("LIFO removes newest first", func(t *testing.T) {
		q := newInstant[int](queue.WithOrder(queue.LIFO))
		for i := 1; i <= 3; i++ {
			q.Send(i)
		}

		assert.Equal(t, queue.LIFO, q.Order())
		assert.Equal(t, 3, q.Receive())
		q.Send(4)
		assert.Equal(t, 4, q.Receive())
		assert.Equal(t, 2, q.Receive())
		assert.Equal(t, 1, q.Receive())
	})
}

func TestQueue_ReceiveBlocksUntilSend(t *testing.T) {
	q := newInstant[string]()
	got := make(chan string, 1)

	go func() {
		got <- q.Receive()
	}()

	select {
	case v := <-got:
		t.Fatalf("Receive returned %q before any send", v)
	case <-time.After(50 * time.Millisecond):
	}

	q.Send("hello")

	select {
	case v := <-got:
		assert.Equal(t, "hello", v)
	case <-time.After(time.Second):
		t.Fatal("Receive did not return after send")
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueue_SendLatency(t *testing.T) {
	var mu sync.Mutex
	var slept []time.Duration
	sleep := func(d time.Duration) {
		mu.Lock()
		slept = append(slept, d)
		mu.Unlock()
	}

	t.Run("default latency is paid on every send", func(t *testing.T) {
		slept = nil
		q := queue.New[int](queue.WithSleep(sleep))
		q.Send(1)
		q.Send(2)

		assert.Equal(t, []time.Duration{queue.DefaultSendLatency, queue.DefaultSendLatency}, slept)
	})

	t.Run("zero latency skips sleeping", func(t *testing.T) {
		slept = nil
		q := queue.New[int](queue.WithSleep(sleep), queue.WithSendLatency(0))
		q.Send(1)

		assert.Empty(t, slept)
		assert.Equal(t, 1, q.Len())
	})

	t.Run("negative latency is clamped", func(t *testing.T) {
		slept = nil
		q := queue.New[int](queue.WithSleep(sleep), queue.WithSendLatency(-time.Second))
		q.Send(1)

		assert.Empty(t, slept)
	})

	t.Run("real latency delays the send", func(t *testing.T) {
		q := queue.New[int](queue.WithSendLatency(20 * time.Millisecond))
		start := time.Now()
		q.Send(1)

		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})
}

func TestQueue_ReceiveContext(t *testing.T) {
	t.Run("cancellation unblocks an empty queue", func(t *testing.T) {
		q := newInstant[int]()
		ctx, cancel := context.WithCancel(context.Background())

		errs := make(chan error, 1)
		go func() {
			_, err := q.ReceiveContext(ctx)
			errs <- err
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-errs:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("ReceiveContext ignored cancellation")
		}
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		q := newInstant[int]()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := q.ReceiveContext(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("available value wins over a done context", func(t *testing.T) {
		q := newInstant[int]()
		q.Send(42)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		v, err := q.ReceiveContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("value delivered while waiting", func(t *testing.T) {
		q := newInstant[int]()
		go func() {
			time.Sleep(20 * time.Millisecond)
			q.Send(5)
		}()

		v, err := q.ReceiveContext(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 5, v)
	})
}

func TestQueue_TryReceive(t *testing.T) {
	q := newInstant[int]()

	_, ok := q.TryReceive()
	assert.False(t, ok)

	q.Send(3)
	v, ok := q.TryReceive()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestQueue_NilInterfaceValues(t *testing.T) {
	q := newInstant[error]()
	q.Send(nil)

	assert.Nil(t, q.Receive())
}

func TestQueue_NoLossNoDuplication(t *testing.T) {
	const producers = 8
	const perProducer = 250
	const consumers = 5
	total := producers * perProducer

	q := newInstant[int]()

	received := make(chan int, total)
	var consumerWG sync.WaitGroup
	for c := 0; c < consumers; c++ {
		consumerWG.Add(1)
		go func() {
			defer consumerWG.Done()
			for {
				v := q.Receive()
				if v < 0 {
					return
				}
				received <- v
			}
		}()
	}

	var producerWG sync.WaitGroup
	for p := 0; p < producers; p++ {
		producerWG.Add(1)
		go func(p int) {
			defer producerWG.Done()
			for i := 0; i < perProducer; i++ {
				q.Send(p*perProducer + i)
			}
		}(p)
	}
	producerWG.Wait()

	got := make([]int, 0, total)
	for len(got) < total {
		select {
		case v := <-received:
			got = append(got, v)
		case <-time.After(5 * time.Second):
			t.Fatalf("received %d of %d values", len(got), total)
		}
	}

	for c := 0; c < consumers; c++ {
		q.Send(-1)
	}
	consumerWG.Wait()

	sort.Ints(got)
	for i, v := range got {
		require.Equal(t, i, v, "value %d lost or duplicated", i)
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueue_LengthUnderContention(t *testing.T) {
	const producers = 6
	const sends = 200
	const consumers = 4
	const receives = 150

	q := newInstant[int](queue.WithOrder(queue.LIFO))

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < sends; i++ {
				q.Send(i)
			}
		}()
	}
	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < receives; i++ {
				q.Receive()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, producers*sends-consumers*receives, q.Len())
}

func TestOrder_Text(t *testing.T) {
	testCases := []struct {
		input    string
		expected queue.Order
		wantErr  bool
	}{
		{"fifo", queue.FIFO, false},
		{"LIFO", queue.LIFO, false},
		{" lifo ", queue.LIFO, false},
		{"", queue.FIFO, false},
		{"stack", queue.FIFO, true},
	}

	for _, tc := range testCases {
		var o queue.Order
		err := o.UnmarshalText([]byte(tc.input))
		if tc.wantErr {
			assert.Error(t, err, tc.input)
			continue
		}
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.expected, o, tc.input)
	}

	text, err := queue.LIFO.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "lifo", string(text))

	_, err = queue.Order(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "order(9)", queue.Order(9).String())
}
