package alert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rdc30/pkg/platform/sentinel"
)

type AlertStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	now   time.Time
}

func TestAlertStoreSuite(t *testing.T) {
	suite.Run(t, new(AlertStoreSuite))
}

func (s *AlertStoreSuite) SetupTest() {
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewInMemoryStore(WithClock(func() time.Time { return s.now }))
	s.ctx = context.Background()
}

func (s *AlertStoreSuite) create(alertType Type, resourceID string) Alert {
	a, err := s.store.Create(s.ctx, Alert{
		Type:         alertType,
		ResourceType: "CONSENT",
		ResourceID:   resourceID,
		Message:      "condición detectada",
	})
	s.Require().NoError(err)
	return a
}

func (s *AlertStoreSuite) TestCreate() {
	s.Run("starts open with no ack metadata", func() {
		a := s.create(TypeExpiringSoon, "consent-1")
		s.Equal(StateOpen, a.State)
		s.Empty(a.AcknowledgedBy)
		s.Nil(a.AcknowledgedAt)
		s.True(a.CreatedAt.Equal(s.now))
	})

	s.Run("caller cannot pre-acknowledge", func() {
		ackAt := s.now
		a, err := s.store.Create(s.ctx, Alert{
			Type:           TypeExpired,
			State:          StateAck,
			AcknowledgedBy: "1",
			AcknowledgedAt: &ackAt,
			Message:        "m",
		})
		s.Require().NoError(err)
		s.Equal(StateOpen, a.State)
		s.Empty(a.AcknowledgedBy)
	})
}

func (s *AlertStoreSuite) TestAcknowledge() {
	s.Run("open to ack stamps who and when", func() {
		a := s.create(TypeExpired, "consent-2")
		acked, err := s.store.Acknowledge(s.ctx, a.ID, "2")
		s.Require().NoError(err)
		s.Equal(StateAck, acked.State)
		s.Equal("2", acked.AcknowledgedBy)
		s.Require().NotNil(acked.AcknowledgedAt)
		s.True(acked.AcknowledgedAt.Equal(s.now))
	})

	s.Run("ack is terminal", func() {
		a := s.create(TypeJobError, "job-1")
		_, err := s.store.Acknowledge(s.ctx, a.ID, "1")
		s.Require().NoError(err)

		_, err = s.store.Acknowledge(s.ctx, a.ID, "2")
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)

		got, err := s.store.GetByID(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal("1", got.AcknowledgedBy)
	})

	s.Run("absent id returns not found", func() {
		_, err := s.store.Acknowledge(s.ctx, "missing", "1")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *AlertStoreSuite) TestOpenCountAndFilters() {
	a := s.create(TypeExpiringSoon, "consent-1")
	s.create(TypeExpired, "consent-2")
	s.create(TypeUnusualRevoke, "")

	count, err := s.store.GetOpenCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, count)

	_, err = s.store.Acknowledge(s.ctx, a.ID, "1")
	s.Require().NoError(err)

	count, err = s.store.GetOpenCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)

	open, err := s.store.List(s.ctx, Filter{State: StateOpen})
	s.Require().NoError(err)
	s.Len(open, 2)

	byResource, err := s.store.List(s.ctx, Filter{ResourceType: "CONSENT", ResourceID: "consent-2"})
	s.Require().NoError(err)
	s.Require().Len(byResource, 1)
	s.Equal(TypeExpired, byResource[0].Type)
}
