package offer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/EdilKulzhabay/courier/internal/domain"
	"github.com/EdilKulzhabay/courier/internal/offer"
	testlog "github.com/EdilKulzhabay/courier/internal/testutil"
)

type chanSink struct {
	lines chan string
	err   error
}

func (s *chanSink) SendLog(_ context.Context, text string) error {
	s.lines <- text
	return s.err
}

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case line := <-ch:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("no telemetry line")
		return ""
	}
}

func TestTelemetry_TerminalTransitionsReachSink(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	sink := &chanSink{lines: make(chan string, 4)}
	rec := testlog.New()
	f.m.Subscribe(offer.NewTelemetry(sink, rec.Logger()))

	require.NoError(t, f.m.Present(sampleOffer("o1")))
	f.clk.Advance(window)

	line := receive(t, sink.lines)
	require.Contains(t, line, "order o1: offered -> timed_out")
	require.Contains(t, line, t0.Add(window).Format(time.RFC3339))

	require.NoError(t, f.m.Present(sampleOffer("o2")))
	require.NoError(t, f.m.Decline())
	require.Contains(t, receive(t, sink.lines), "order o2: offered -> declined")

	f.acceptor.EXPECT().AcceptOrder(gomock.Any(), gomock.Any()).Return(true, nil)
	f.store.EXPECT().SaveOrder(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, f.m.Present(sampleOffer("o3")))
	require.NoError(t, f.m.Accept(context.Background()))
	require.Contains(t, receive(t, sink.lines), "order o3: offered -> accepted")

	require.NoError(t, f.m.Acknowledge())
	select {
	case line := <-sink.lines:
		t.Fatalf("non-terminal transition sent: %s", line)
	case <-time.After(50 * time.Millisecond):
	}

	logged := rec.Find("info", "offer transition")
	require.Len(t, logged, 7)
	to, ok := logged[len(logged)-1].Field("to")
	require.True(t, ok)
	require.Equal(t, string(domain.OfferIdle), to)
}

func TestTelemetry_SinkErrorIsLogged(t *testing.T) {
	t.Parallel()

	sink := &chanSink{lines: make(chan string, 1), err: errors.New("backend down")}
	rec := testlog.New()
	notify := offer.NewTelemetry(sink, rec.Logger())

	notify(offer.Transition{
		From:  domain.OfferOffered,
		To:    domain.OfferDeclined,
		Offer: &domain.OrderOffer{OrderID: "o1"},
		At:    t0,
	})
	receive(t, sink.lines)

	require.Eventually(t, func() bool {
		return len(rec.Find("warn", "offer telemetry not delivered")) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestTelemetry_NilSinkOnlyLogs(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	notify := offer.NewTelemetry(nil, rec.Logger())
	notify(offer.Transition{From: domain.OfferOffered, To: domain.OfferTimedOut, At: t0})
	require.Len(t, rec.Find("info", "offer transition"), 1)
}
