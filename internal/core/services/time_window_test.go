package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	"github.com/immoplus-app/immoplus-backend/internal/core/services"
)

// fakeClock is a settable clock shared by the service tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestCanMutate_AdminAlwaysPasses(t *testing.T) {
	clock := newFakeClock()
	policy := services.NewTimeWindowPolicy(clock)
	created := clock.Now()

	clock.Advance(365 * 24 * time.Hour)
	assert.True(t, policy.CanMutate(domain.RoleAdmin, false, false, created))
}

func TestCanMutate_AgentNeedsOwnershipOrAssignment(t *testing.T) {
	clock := newFakeClock()
	policy := services.NewTimeWindowPolicy(clock)
	created := clock.Now()

	clock.Advance(48 * time.Hour)
	assert.True(t, policy.CanMutate(domain.RoleAgent, true, false, created))
	assert.True(t, policy.CanMutate(domain.RoleAgent, false, true, created))
	assert.False(t, policy.CanMutate(domain.RoleAgent, false, false, created))
}

func TestCanMutate_ClientInsideWindow(t *testing.T) {
	clock := newFakeClock()
	policy := services.NewTimeWindowPolicy(clock)
	created := clock.Now()

	clock.Advance(30 * time.Minute)
	assert.True(t, policy.CanMutate(domain.RoleClient, true, false, created))
}

func TestCanMutate_ClientAfterWindowElapsed(t *testing.T) {
	clock := newFakeClock()
	policy := services.NewTimeWindowPolicy(clock)
	created := clock.Now()

	clock.Advance(90 * time.Minute)
	assert.False(t, policy.CanMutate(domain.RoleClient, true, false, created))
}

func TestCanMutate_ClientExactBoundaryStillPasses(t *testing.T) {
	clock := newFakeClock()
	policy := services.NewTimeWindowPolicy(clock)
	created := clock.Now()

	clock.Advance(services.ClientMutationWindow)
	assert.True(t, policy.CanMutate(domain.RoleClient, true, false, created))

	clock.Advance(time.Nanosecond)
	assert.False(t, policy.CanMutate(domain.RoleClient, true, false, created))
}

func TestCanMutate_ClientNeverOnForeignRecords(t *testing.T) {
	clock := newFakeClock()
	policy := services.NewTimeWindowPolicy(clock)

	assert.False(t, policy.CanMutate(domain.RoleClient, false, false, clock.Now()))
}

func TestRemaining_DerivedNotPersisted(t *testing.T) {
	clock := newFakeClock()
	policy := services.NewTimeWindowPolicy(clock)
	created := clock.Now()

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 45*time.Minute, policy.Remaining(created))

	clock.Advance(2 * time.Hour)
	assert.Equal(t, time.Duration(0), policy.Remaining(created))
}
