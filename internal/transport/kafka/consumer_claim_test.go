package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"

	"github.com/EdilKulzhabay/courier/internal/domain"
	testlog "github.com/EdilKulzhabay/courier/internal/testutil"
)

type fakeSession struct {
	ctx context.Context

	mu     sync.Mutex
	marked int
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(*sarama.ConsumerMessage, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked++
}

func (s *fakeSession) MarkOffset(string, int32, int64, string)  {}
func (s *fakeSession) Commit()                                  {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) Claims() map[string][]int32               { return nil }
func (s *fakeSession) MemberID() string                         { return "" }
func (s *fakeSession) GenerationID() int32                      { return 0 }

func (s *fakeSession) MarkedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marked
}

type fakeClaim struct {
	ch chan *sarama.ConsumerMessage
}

func (c fakeClaim) Topic() string              { return "t" }
func (c fakeClaim) Partition() int32           { return 0 }
func (c fakeClaim) InitialOffset() int64       { return 0 }
func (c fakeClaim) HighWaterMarkOffset() int64 { return 0 }
func (c fakeClaim) Messages() <-chan *sarama.ConsumerMessage {
	return c.ch
}

func claimOf(values ...string) fakeClaim {
	ch := make(chan *sarama.ConsumerMessage, len(values))
	for _, v := range values {
		ch <- &sarama.ConsumerMessage{Value: []byte(v)}
	}
	close(ch)
	return fakeClaim{ch: ch}
}

func TestConsumeClaim_BadJSON_Skips(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, domain.Notification) error {
			t.Error("handler must not be called")
			return nil
		},
	}
	h := &groupHandler{c: c}
	sess := &fakeSession{ctx: context.Background()}

	require.NoError(t, h.ConsumeClaim(sess, claimOf("not-json")))
	require.Equal(t, 1, sess.MarkedCount())
	require.NotEmpty(t, rec.Find("warn", "kafka bad json"))
}

func TestConsumeClaim_EmptyTitle_Skips(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	calls := 0
	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, domain.Notification) error {
			calls++
			return nil
		},
	}
	h := &groupHandler{c: c}
	sess := &fakeSession{ctx: context.Background()}

	require.NoError(t, h.ConsumeClaim(sess, claimOf(`{"title":"  "}`)))
	require.Equal(t, 1, sess.MarkedCount())
	require.Zero(t, calls)
	require.NotEmpty(t, rec.Find("warn", "kafka empty title"))
}

func TestConsumeClaim_HandlerError_SkipsButMarks(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, domain.Notification) error {
			return errors.New("boom")
		},
	}
	h := &groupHandler{c: c}
	sess := &fakeSession{ctx: context.Background()}

	require.NoError(t, h.ConsumeClaim(sess, claimOf(`{"title":"getLocation"}`)))
	require.Equal(t, 1, sess.MarkedCount())
	require.NotEmpty(t, rec.Find("warn", "kafka handle failed, skipping message"))
}

func TestConsumeClaim_CanceledSessionStopsWithoutMark(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &Consumer{
		logger: testlog.New().Logger(),
		handler: func(ctx context.Context, _ domain.Notification) error {
			return ctx.Err()
		},
	}
	h := &groupHandler{c: c}
	sess := &fakeSession{ctx: ctx}

	err := h.ConsumeClaim(sess, claimOf(`{"title":"getLocation"}`))
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, sess.MarkedCount())
}

func TestConsumeClaim_Success_Marks(t *testing.T) {
	t.Parallel()

	var got []domain.Notification
	c := &Consumer{
		logger: testlog.New().Logger(),
		handler: func(_ context.Context, n domain.Notification) error {
			got = append(got, n)
			return nil
		},
	}
	h := &groupHandler{c: c}
	sess := &fakeSession{ctx: context.Background()}

	err := h.ConsumeClaim(sess, claimOf(
		`{"title":" newOrder ","data":{"order":{"orderId":"o1"}}}`,
		`{"title":"getLocation"}`,
	))
	require.NoError(t, err)
	require.Equal(t, 2, sess.MarkedCount())
	require.Len(t, got, 2)
	require.Equal(t, domain.TitleNewOrder, got[0].Title)
	require.JSONEq(t, `{"orderId":"o1"}`, string(got[0].Data.Order))
	require.Equal(t, domain.TitleGetLocation, got[1].Title)
}
