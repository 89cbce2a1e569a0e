package processor

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cookboard/worker-service/internal/app/worker/entity"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuditService struct {
	mock.Mock
}

func (m *mockAuditService) ProcessRatingEvent(ctx context.Context, event *entity.RatingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockAuditService) SweepAggregates(ctx context.Context) (*entity.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SweepResult), args.Error(1)
}

func newTestConsumer(auditSvc *mockAuditService) *KafkaConsumer {
	return NewKafkaConsumer(
		[]string{"localhost:9092"},
		"rating_events",
		"worker-service-group",
		1,
		10e6,
		auditSvc,
	)
}

func TestProcessMessage_ValidEvent(t *testing.T) {
	auditSvc := new(mockAuditService)
	consumer := newTestConsumer(auditSvc)
	defer consumer.reader.Close()

	event := entity.RatingEvent{
		EventType:  entity.EventRatingCreated,
		RatingID:   "rating-1",
		RecipeID:   "recipe-1",
		UserID:     "user-1",
		Value:      4,
		AvgRating:  4.5,
		NumRatings: 2,
		Timestamp:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	auditSvc.On("ProcessRatingEvent", mock.Anything, mock.MatchedBy(func(e *entity.RatingEvent) bool {
		return e.EventType == entity.EventRatingCreated &&
			e.RecipeID == "recipe-1" &&
			e.NumRatings == 2
	})).Return(nil)

	err = consumer.processMessage(context.Background(), kafka.Message{Value: payload})

	assert.NoError(t, err)
	auditSvc.AssertExpectations(t)
}

func TestProcessMessage_InvalidJSON(t *testing.T) {
	auditSvc := new(mockAuditService)
	consumer := newTestConsumer(auditSvc)
	defer consumer.reader.Close()

	err := consumer.processMessage(context.Background(), kafka.Message{Value: []byte("not json")})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal rating event")
	auditSvc.AssertNotCalled(t, "ProcessRatingEvent", mock.Anything, mock.Anything)
}

func TestProcessMessage_ServiceError(t *testing.T) {
	auditSvc := new(mockAuditService)
	consumer := newTestConsumer(auditSvc)
	defer consumer.reader.Close()

	payload, err := json.Marshal(entity.RatingEvent{
		EventType: entity.EventRatingDeleted,
		RecipeID:  "recipe-1",
	})
	require.NoError(t, err)

	auditSvc.On("ProcessRatingEvent", mock.Anything, mock.Anything).
		Return(assert.AnError)

	err = consumer.processMessage(context.Background(), kafka.Message{Value: payload})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to process rating event")
}
