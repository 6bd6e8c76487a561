package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDisabledPublisherIsNoop(t *testing.T) {
	p, err := NewEventPublisher("", "learning.events", zap.NewNop().Sugar())
	require.NoError(t, err)

	assert.NoError(t, p.Publish(context.Background(), Event{Type: LessonCompleted, UserID: 1}))
	assert.NoError(t, p.Close())
}

func TestMockPublisherByType(t *testing.T) {
	m := NewMockPublisher()
	ctx := context.Background()
	require.NoError(t, m.Publish(ctx, Event{Type: QuizSubmitted, UserID: 1}))
	require.NoError(t, m.Publish(ctx, Event{Type: LessonCompleted, UserID: 1, LessonID: 3}))
	require.NoError(t, m.Publish(ctx, Event{Type: QuizSubmitted, UserID: 2}))

	assert.Len(t, m.ByType(QuizSubmitted), 2)
	assert.Len(t, m.ByType(CourseCompleted), 0)
	assert.Equal(t, uint(3), m.ByType(LessonCompleted)[0].LessonID)
}
