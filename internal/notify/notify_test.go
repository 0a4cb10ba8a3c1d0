package notify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishBumpsVersionAndNotifiesInOrder(t *testing.T) {
	var b Broadcaster
	var calls []string

	b.Subscribe(func() { calls = append(calls, "first") })
	b.Subscribe(func() { calls = append(calls, "second") })

	require.Equal(t, uint64(0), b.Version())
	require.Equal(t, uint64(1), b.Publish())
	require.Equal(t, []string{"first", "second"}, calls)
	require.Equal(t, uint64(1), b.Version())
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	var b Broadcaster
	count := 0

	sub := b.Subscribe(func() { count++ })
	b.Publish()
	sub.Unsubscribe()
	sub.Unsubscribe()
	b.Publish()

	require.Equal(t, 1, count)
	require.Equal(t, uint64(2), b.Version())
}

func TestListenerMayUnsubscribeDuringPublish(t *testing.T) {
	var b Broadcaster
	count := 0

	var sub Subscription
	sub = b.Subscribe(func() {
		count++
		sub.Unsubscribe()
	})

	require.NotPanics(t, func() {
		b.Publish()
		b.Publish()
	})
	require.Equal(t, 1, count)
}

func TestNilListenerIsIgnored(t *testing.T) {
	var b Broadcaster
	sub := b.Subscribe(nil)
	require.NotPanics(t, sub.Unsubscribe)
	require.NotPanics(t, func() { b.Publish() })
}
