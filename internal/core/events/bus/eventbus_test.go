package bus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObserver struct {
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_ string, _ Event) {
	o.publishCount++
}

func (o *testObserver) OnDelivered(_ string, handlers int, err error, _ time.Duration) {
	o.deliveredCount += handlers
	o.lastErr = err
}

func TestPublishInSubscriptionOrder(t *testing.T) {
	b := New()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		_, err := b.Subscribe("test.event", func(Event) error {
			got = append(got, i)
			return nil
		})
		require.NoError(t, err)
	}
	require.NoError(t, b.Publish(NewEvent("test.event", "tester", 123)))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestWildcardSubscriber(t *testing.T) {
	b := New()
	var types []string
	_, err := b.Subscribe(AnyEvent, func(e Event) error {
		types = append(types, e.Type())
		return nil
	})
	require.NoError(t, err)
	_ = b.Publish(NewEvent("a", "src", nil))
	_ = b.Publish(NewEvent("b", "src", nil))
	assert.Equal(t, []string{"a", "b"}, types)
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	e1, e2 := errors.New("one"), errors.New("two")
	_, _ = b.Subscribe("x", func(Event) error { return e1 })
	_, _ = b.Subscribe("x", func(Event) error { return e2 })

	err := b.Publish(NewEvent("x", "src", nil))
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	count := 0
	sub, err := b.Subscribe("x", func(Event) error { count++; return nil })
	require.NoError(t, err)

	_ = b.Publish(NewEvent("x", "src", nil))
	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel())
	_ = b.Publish(NewEvent("x", "src", nil))

	assert.Equal(t, 1, count)
	assert.False(t, sub.IsActive())
	assert.NoError(t, b.Unsubscribe(nil))
}

func TestSubscribeRejectsNilHandler(t *testing.T) {
	_, err := New().Subscribe("x", nil)
	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestFiltersAndMetrics(t *testing.T) {
	b := New()
	obs := &testObserver{}
	b.AddObserver(obs)

	delivered := 0
	_, _ = b.Subscribe("x", func(Event) error { delivered++; return nil })

	reject := func(Event) bool { return false }
	require.NoError(t, b.PublishWithFilters(NewEvent("x", "src", nil), reject))
	require.NoError(t, b.Publish(NewEvent("x", "src", nil)))

	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, obs.publishCount)
	assert.Equal(t, 1, obs.deliveredCount)

	m := b.GetMetrics()
	assert.EqualValues(t, 1, m.Published)
	assert.EqualValues(t, 1, m.DroppedByFilters)
	assert.EqualValues(t, 1, m.SubscribersActive)

	b.RemoveObserver(obs)
	_ = b.Publish(NewEvent("x", "src", nil))
	assert.EqualValues(t, 1, b.GetMetrics().Published)
}
