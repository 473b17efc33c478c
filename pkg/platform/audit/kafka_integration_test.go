//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"enspass/pkg/platform/audit"
	"enspass/pkg/testutil/containers"
)

func TestKafkaSinkPublishesEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rp := containers.NewRedpandaContainer(t)
	ctx := context.Background()

	sink, err := audit.NewKafkaSink(ctx, []string{rp.Broker}, "enspass.audit.test")
	require.NoError(t, err)
	defer sink.Close()

	want := audit.Event{
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		RequestID: "req-1",
		Buyer:     "0xBuyer",
		Domain:    "mydomain",
		Action:    audit.ActionApprove,
		Outcome:   audit.OutcomeRejected,
		Reason:    "isAlreadyRegistered: true isValidRequest: true isPaidFor: true",
	}
	require.NoError(t, sink.Publish(ctx, want))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics("enspass.audit.test"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "0xbuyer", string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, want.Action, got.Action)
	assert.Equal(t, want.Outcome, got.Outcome)
	assert.Equal(t, want.Reason, got.Reason)
}
