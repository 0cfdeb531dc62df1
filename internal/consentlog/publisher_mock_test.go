package consentlog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cookiegate/internal/consent/models"
	"cookiegate/internal/consentlog"
	"cookiegate/internal/consentlog/mocks"
	dErrors "cookiegate/pkg/domain-errors"
)

func TestRequestLoggerPropagatesStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		Return(dErrors.New(dErrors.CodeStorageFailure, "connection refused"))

	publisher := consentlog.NewPublisher(store, "secret")
	logger := publisher.WithRequest("203.0.113.1", "curl/8.0")

	err := logger.Log(context.Background(), &models.Record{
		ID:            "rec-1",
		PolicyVersion: "2.0",
		Timestamp:     time.Now().Unix(),
		Categories:    models.OnlyNecessary(),
	}, models.ActionRejectAll)

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStorageFailure))
}

func TestSyncEmitWritesThroughImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	var captured *consentlog.Entry
	store.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *consentlog.Entry) error {
			captured = entry
			return nil
		})

	publisher := consentlog.NewPublisher(store, "secret")
	err := publisher.Emit(context.Background(), consentlog.Entry{ConsentID: "rec-2", ActionType: "customize"})

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "rec-2", captured.ConsentID)
	assert.False(t, captured.CreatedAt.IsZero(), "timestamp is stamped on emit")
}

func TestAsyncEmitReportsFullBuffer(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	release := make(chan struct{})
	store.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *consentlog.Entry) error {
			<-release
			return nil
		}).
		AnyTimes()

	publisher := consentlog.NewPublisher(store, "secret", consentlog.WithAsyncBuffer(1))

	// First fill the worker plus the single buffer slot, then overflow.
	var overflowed error
	for i := 0; i < 8; i++ {
		if err := publisher.Emit(context.Background(), consentlog.Entry{ConsentID: "x"}); err != nil {
			overflowed = err
			break
		}
	}
	close(release)
	publisher.Close()

	require.Error(t, overflowed, "a full buffer drops rather than blocks")
	assert.True(t, dErrors.HasCode(overflowed, dErrors.CodeStorageFailure))
}
