package domain

import "github.com/immoplus-app/immoplus-backend/internal/apperrors"

// LinkKind identifies which kind of entity a ledger entry is attributed to.
type LinkKind string

const (
	LinkNone    LinkKind = "NONE"
	LinkService LinkKind = "SERVICE"
	LinkTask    LinkKind = "TASK"
	LinkProject LinkKind = "PROJECT"
	LinkOrder   LinkKind = "ORDER"
)

// LinkTarget is the tagged union over the four optional link columns. The storage
// schema keeps serviceID/taskID/projectID/orderID as independent nullable columns;
// the domain only ever sees at most one of them set.
type LinkTarget struct {
	Kind LinkKind `json:"kind"`
	ID   string   `json:"id,omitempty"`
}

// NoLink is the zero link target for standalone ledger entries.
var NoLink = LinkTarget{Kind: LinkNone}

// NewLinkTarget builds a LinkTarget from the four optional ids, rejecting with
// ErrLinkIntegrity when more than one is set. The original schema never forbade
// multiple simultaneous links; this is the boundary that does.
func NewLinkTarget(serviceID, taskID, projectID, orderID *string) (LinkTarget, error) {
	target := NoLink
	count := 0
	set := func(kind LinkKind, id *string) {
		if id != nil && *id != "" {
			target = LinkTarget{Kind: kind, ID: *id}
			count++
		}
	}
	set(LinkService, serviceID)
	set(LinkTask, taskID)
	set(LinkProject, projectID)
	set(LinkOrder, orderID)
	if count > 1 {
		return NoLink, apperrors.ErrLinkIntegrity
	}
	return target, nil
}

// IsNone reports whether the entry is standalone.
func (l LinkTarget) IsNone() bool {
	return l.Kind == LinkNone || l.Kind == ""
}

// RequiresSettlement reports whether the linked entity ties the entry to an
// external workflow (delivery, validation) that must confirm it before it is
// considered final.
func (l LinkTarget) RequiresSettlement() bool {
	return l.Kind == LinkProject || l.Kind == LinkOrder
}

// LinkFacts are the ownership/assignment facts the link registry resolves for a
// link target. The core treats the linked entity as opaque beyond these.
type LinkFacts struct {
	Kind            LinkKind
	ID              string
	OwnerUserID     *string
	AssignedAgentID *string
}

// IsAssignedAgent reports whether userID is the agent assigned to the linked entity.
func (f *LinkFacts) IsAssignedAgent(userID string) bool {
	return f != nil && f.AssignedAgentID != nil && *f.AssignedAgentID == userID
}
