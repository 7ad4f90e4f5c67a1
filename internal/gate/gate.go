// Package gate decides whether a resource opens immediately or behind the
// subscription prompt.
package gate

import (
	"errors"
	"fmt"

	"github.com/gabrielmiguelok/linkhub/internal/catalog"
)

// ErrResourceNotLive is returned for resources that cannot be opened.
var ErrResourceNotLive = errors.New("resource is not live")

// Kind identifies the action produced by the controller.
type Kind int

const (
	// OpenDirectly opens the resource link in a new, unreferenced context.
	OpenDirectly Kind = iota + 1
	// ShowModal presents the subscription prompt for the resource.
	ShowModal
)

func (k Kind) String() string {
	switch k {
	case OpenDirectly:
		return "open_directly"
	case ShowModal:
		return "show_modal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Action is the result of an open request.
type Action struct {
	Kind     Kind
	Resource catalog.Resource
}

// Link returns the URL to open for an OpenDirectly action.
func (a Action) Link() string {
	return a.Resource.Link
}

// AccessChecker reports whether the visitor already passed the gate.
type AccessChecker interface {
	HasAccess() bool
}

// Controller applies the gating rules.
type Controller struct {
	disabled bool
	access   AccessChecker
}

// NewController creates a controller. When disabled is true every request
// opens directly.
func NewController(disabled bool, access AccessChecker) *Controller {
	return &Controller{
		disabled: disabled,
		access:   access,
	}
}

// Disabled reports whether gating is turned off.
func (c *Controller) Disabled() bool {
	return c.disabled
}

// RequestOpen evaluates the rules in order: gating disabled, existing
// access, otherwise prompt.
func (c *Controller) RequestOpen(res catalog.Resource) (Action, error) {
	if !res.IsLive() {
		return Action{}, fmt.Errorf("%w: %s", ErrResourceNotLive, res.ID)
	}
	if c.disabled {
		return Action{Kind: OpenDirectly, Resource: res}, nil
	}
	if c.access != nil && c.access.HasAccess() {
		return Action{Kind: OpenDirectly, Resource: res}, nil
	}
	return Action{Kind: ShowModal, Resource: res}, nil
}
