package iqueue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFO(t *testing.T) {
	q := New[int]()
	nodes := make([]Node[int], 5)
	for i := range nodes {
		nodes[i].Value = i
		require.NoError(t, q.Push(&nodes[i]))
		assert.True(t, nodes[i].Queued())
	}
	assert.Equal(t, 5, q.Len())
	for i := range nodes {
		n := q.Pop()
		require.NotNil(t, n)
		assert.Same(t, &nodes[i], n)
		assert.False(t, n.Queued())
	}
	assert.Nil(t, q.Pop())
	assert.Zero(t, q.Len())
}

func TestPushErrors(t *testing.T) {
	q := New[string]()
	require.ErrorIs(t, q.Push(nil), ErrNilNode)

	n := NewNode("a")
	require.NoError(t, q.Push(n))
	require.ErrorIs(t, q.Push(n), ErrNodeQueued)

	// a popped node can be pushed again
	require.Same(t, n, q.Pop())
	require.NoError(t, q.Push(n))

	q.Close()
	require.ErrorIs(t, q.Push(NewNode("b")), ErrClosed)
	// queued nodes survive Close
	require.Same(t, n, q.Pop())
}

func TestPopWaitContext(t *testing.T) {
	q := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	n, err := q.PopWait(ctx)
	assert.Nil(t, n)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPopWaitWakesOnPush(t *testing.T) {
	q := New[int]()
	got := make(chan int, 1)
	go func() {
		n, err := q.PopWait(context.Background())
		if err == nil {
			got <- n.Value
		}
	}()
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, q.Push(NewNode(9)))
	select {
	case v := <-got:
		assert.Equal(t, 9, v)
	case <-time.After(time.Second):
		t.Fatal("waiter not woken")
	}
}

func TestPopWaitDrainsThenClosed(t *testing.T) {
	q := New[int]()
	require.NoError(t, q.Push(NewNode(1)))
	q.Close()
	q.Close()

	n, err := q.PopWait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n.Value)

	n, err = q.PopWait(context.Background())
	assert.Nil(t, n)
	require.ErrorIs(t, err, ErrClosed)
}

func TestConcurrentProducersConsumers(t *testing.T) {
	const producers, consumers, perProducer = 4, 4, 500
	q := New[int]()
	nodes := make([]Node[int], producers*perProducer)

	var sum sync.Map
	var cwg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for {
				n, err := q.PopWait(context.Background())
				if err != nil {
					return
				}
				_, dup := sum.LoadOrStore(n.Value, true)
				assert.False(t, dup)
			}
		}()
	}

	var pwg sync.WaitGroup
	for p := 0; p < producers; p++ {
		pwg.Add(1)
		go func(p int) {
			defer pwg.Done()
			for i := 0; i < perProducer; i++ {
				n := &nodes[p*perProducer+i]
				n.Value = p*perProducer + i
				assert.NoError(t, q.Push(n))
			}
		}(p)
	}
	pwg.Wait()
	q.Close()
	cwg.Wait()

	count := 0
	sum.Range(func(_, _ any) bool { count++; return true })
	assert.Equal(t, producers*perProducer, count)
	assert.Zero(t, q.Len())
}
