package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/immoplus-app/immoplus-backend/internal/apperrors"
	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	"github.com/immoplus-app/immoplus-backend/internal/core/services"
)

func TestDeriveInitialStatus_NoLinkCompletes(t *testing.T) {
	status := services.DeriveInitialStatus(domain.NoLink, nil, domain.RoleClient)
	assert.Equal(t, domain.StatusCompleted, status)
}

func TestDeriveInitialStatus_ServiceAndTaskComplete(t *testing.T) {
	for _, kind := range []domain.LinkKind{domain.LinkService, domain.LinkTask} {
		link := domain.LinkTarget{Kind: kind, ID: "x"}
		status := services.DeriveInitialStatus(link, nil, domain.RoleAgent)
		assert.Equal(t, domain.StatusCompleted, status, "kind %s", kind)
	}
}

func TestDeriveInitialStatus_ProjectAndOrderStartPending(t *testing.T) {
	for _, kind := range []domain.LinkKind{domain.LinkProject, domain.LinkOrder} {
		link := domain.LinkTarget{Kind: kind, ID: "x"}
		status := services.DeriveInitialStatus(link, nil, domain.RoleClient)
		assert.Equal(t, domain.StatusPending, status, "kind %s", kind)
	}
}

func TestDeriveInitialStatus_AdminOverrideHonored(t *testing.T) {
	requested := domain.StatusCancelled
	link := domain.LinkTarget{Kind: domain.LinkProject, ID: "p1"}
	status := services.DeriveInitialStatus(link, &requested, domain.RoleAdmin)
	assert.Equal(t, domain.StatusCancelled, status)
}

func TestDeriveInitialStatus_NonAdminOverrideIgnored(t *testing.T) {
	requested := domain.StatusCancelled
	link := domain.LinkTarget{Kind: domain.LinkProject, ID: "p1"}

	status := services.DeriveInitialStatus(link, &requested, domain.RoleClient)
	assert.Equal(t, domain.StatusPending, status)

	status = services.DeriveInitialStatus(domain.NoLink, &requested, domain.RoleAgent)
	assert.Equal(t, domain.StatusCompleted, status)
}

func TestValidateStatusTransition_PendingMovesToTerminal(t *testing.T) {
	assert.NoError(t, services.ValidateStatusTransition(domain.StatusPending, domain.StatusCompleted))
	assert.NoError(t, services.ValidateStatusTransition(domain.StatusPending, domain.StatusCancelled))
}

func TestValidateStatusTransition_NoOpAlwaysAllowed(t *testing.T) {
	for _, status := range []domain.TransactionStatus{domain.StatusPending, domain.StatusCompleted, domain.StatusCancelled} {
		assert.NoError(t, services.ValidateStatusTransition(status, status))
	}
}

func TestValidateStatusTransition_TerminalIsFrozen(t *testing.T) {
	err := services.ValidateStatusTransition(domain.StatusCompleted, domain.StatusPending)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)

	err = services.ValidateStatusTransition(domain.StatusCompleted, domain.StatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)

	err = services.ValidateStatusTransition(domain.StatusCancelled, domain.StatusCompleted)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
}

func TestValidateStatusTransition_UnknownTargetRejected(t *testing.T) {
	err := services.ValidateStatusTransition(domain.StatusPending, domain.TransactionStatus("ARCHIVED"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
