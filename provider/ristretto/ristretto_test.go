package ristretto

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/unkn0wn-root/etf"
	c "github.com/unkn0wn-root/etf/codec"
	"github.com/unkn0wn-root/etf/names"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(Config{NumCounters: 1e4, MaxCost: 1 << 20, BufferItems: 64, Metrics: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("got %v want ErrInvalidConfig", err)
	}
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	defer p.Close(ctx)

	v := []byte{131, 88, 119, 1, 'a'}
	ok, err := p.Set(ctx, "k", v, int64(len(v)), 0)
	if err != nil || !ok {
		t.Fatalf("set: ok=%v err=%v", ok, err)
	}
	got, hit, err := p.Get(ctx, "k")
	if err != nil || !hit || !bytes.Equal(got, v) {
		t.Fatalf("get: %x hit=%v err=%v", got, hit, err)
	}
	if err := p.Del(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := p.Get(ctx, "k"); hit {
		t.Fatalf("hit after delete")
	}
	if p.Metrics() == nil {
		t.Fatalf("metrics disabled")
	}
}

func TestBacksNamesStore(t *testing.T) {
	ctx := context.Background()
	st, err := names.New(names.Options[etf.PidTerm]{
		Namespace: "node1",
		Provider:  newTestProvider(t),
		Codec:     c.ETF[etf.PidTerm]{},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close(ctx)

	pid, err := etf.WrapPid(etf.NewPid("a@b", 1, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Register(ctx, "logger", pid, 0); err != nil {
		t.Fatal(err)
	}
	got, ok, err := st.Whereis(ctx, "logger")
	if err != nil || !ok || !got.Pid().Equal(pid.Pid()) {
		t.Fatalf("whereis: %v ok=%v err=%v", got, ok, err)
	}
}
