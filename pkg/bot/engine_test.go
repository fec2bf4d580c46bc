package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/supportdesk/ticketbot/pkg/model"
)

type sliceAdapter struct {
	name string
	msgs []model.Message
	err  error
}

func (a *sliceAdapter) Name() string { return a.name }

func (a *sliceAdapter) Start(ctx context.Context, out chan<- model.Message) error {
	for _, m := range a.msgs {
		select {
		case out <- m:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return a.err
}

type recorder struct {
	mu   sync.Mutex
	seen map[model.Snowflake][]string
}

func (r *recorder) Handle(_ context.Context, msg model.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen == nil {
		r.seen = map[model.Snowflake][]string{}
	}
	r.seen[msg.Author.ID] = append(r.seen[msg.Author.ID], msg.Content)
}

func msgsFrom(author model.Snowflake, texts ...string) []model.Message {
	out := make([]model.Message, len(texts))
	for i, s := range texts {
		out[i] = model.Message{Author: model.Member{ID: author}, Content: s}
	}
	return out
}

func TestEngine_HandlesAllInAuthorOrder(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(rec, WithWorkers(3), WithQueueSize(1))
	e.RegisterAdapter(&sliceAdapter{name: "a", msgs: msgsFrom(1, "a1", "a2", "a3", "a4")})
	e.RegisterAdapter(&sliceAdapter{name: "b", msgs: msgsFrom(2, "b1", "b2", "b3")})

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := map[model.Snowflake][]string{1: {"a1", "a2", "a3", "a4"}, 2: {"b1", "b2", "b3"}}
	for id, texts := range want {
		got := rec.seen[id]
		if len(got) != len(texts) {
			t.Fatalf("author %d: got %v", id, got)
		}
		for i := range texts {
			if got[i] != texts[i] {
				t.Fatalf("author %d out of order: %v", id, got)
			}
		}
	}
}

func TestEngine_AdapterError(t *testing.T) {
	boom := errors.New("boom")
	e := NewEngine(&recorder{})
	e.RegisterAdapter(&sliceAdapter{name: "bad", err: boom})
	if err := e.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Run err = %v", err)
	}
}

func TestEngine_NoAdapters(t *testing.T) {
	if err := NewEngine(&recorder{}).Run(context.Background()); err == nil {
		t.Fatal("Run with no adapters succeeded")
	}
}

type blockingAdapter struct{}

func (blockingAdapter) Name() string { return "block" }

func (blockingAdapter) Start(ctx context.Context, _ chan<- model.Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestEngine_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e := NewEngine(&recorder{})
	e.RegisterAdapter(blockingAdapter{})

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run err = %v, want nil on cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
