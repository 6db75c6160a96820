package model

import (
	"errors"
	"fmt"
)

// dispatchOrder selects who is notified in which order.
type dispatchOrder int

const (
	// rewriter, feature views, instance view
	instanceViewLast dispatchOrder = iota
	// rewriter, instance view, feature views
	normalViewsLast
	// feature views, instance view; never the rewriter
	instanceChanges
)

func (o dispatchOrder) String() string {
	switch o {
	case instanceViewLast:
		return "instanceViewLast"
	case normalViewsLast:
		return "normalViewsLast"
	default:
		return "instanceChanges"
	}
}

// dispatchContext is the state of one fan-out.
type dispatchContext struct {
	kind       string
	order      dispatchOrder
	rewriteErr *RewriteError
	failures   []error
}

// builder creates the notification for one receiving view, so that the
// handles it carries are scoped to that view.
type builder func(v View) Notification

// notify fans a notification out in the given order. If the rewriter
// rejected the change, the document text is reset after every view has
// been notified and the rewrite error is returned.
func (m *Model) notify(order dispatchOrder, build builder) *RewriteError {
	ctx := &dispatchContext{order: order}

	switch order {
	case instanceViewLast:
		m.notifyRewriter(ctx, build)
		m.notifyFeatureViews(ctx, build, nil)
		m.notifyInstanceView(ctx, build)
	case normalViewsLast:
		m.notifyRewriter(ctx, build)
		m.notifyInstanceView(ctx, build)
		m.notifyFeatureViews(ctx, build, nil)
	case instanceChanges:
		m.notifyFeatureViews(ctx, build, nil)
		m.notifyInstanceView(ctx, build)
	}

	if ctx.rewriteErr != nil {
		m.resetToLastGoodText(ctx.rewriteErr)
	}
	return ctx.rewriteErr
}

func (m *Model) notifyRewriter(ctx *dispatchContext, build builder) {
	if m.rewriter == nil {
		return
	}
	err := m.deliver(ctx, m.rewriter, build)
	if err == nil {
		return
	}
	var rewriteErr *RewriteError
	if errors.As(err, &rewriteErr) {
		if ctx.rewriteErr == nil {
			ctx.rewriteErr = rewriteErr
		}
		m.logger.Warn("model: rewriter rejected change",
			"notification", ctx.kind, "description", rewriteErr.Description)
		return
	}
	m.reportViewFailure(ctx, m.rewriter, err)
}

func (m *Model) notifyInstanceView(ctx *dispatchContext, build builder) {
	if m.instanceView == nil {
		return
	}
	if err := m.deliver(ctx, m.instanceView, build); err != nil {
		m.reportViewFailure(ctx, m.instanceView, err)
	}
}

// notifyFeatureViews notifies the feature views in registration order,
// skipping skip. The list is copied so a view detaching itself does not
// disturb the iteration.
func (m *Model) notifyFeatureViews(ctx *dispatchContext, build builder, skip View) {
	views := append([]View(nil), m.views...)
	for _, v := range views {
		if v == skip || v.base().model != m {
			continue
		}
		if err := m.deliver(ctx, v, build); err != nil {
			m.reportViewFailure(ctx, v, err)
		}
	}
}

// deliver calls one view. The blocked flag is checked right before the
// call. Panics are turned into errors, except for reentrant writes which
// are programming errors and keep propagating.
func (m *Model) deliver(ctx *dispatchContext, v View, build builder) (err error) {
	if v.base().blocked {
		return nil
	}
	n := build(v)
	if n == nil {
		return nil
	}
	ctx.kind = n.Kind()

	prev := m.delivering
	m.delivering = v
	defer func() { m.delivering = prev }()
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, ErrReentrantWrite) {
				panic(r)
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return v.Notify(n)
}

func (m *Model) reportViewFailure(ctx *dispatchContext, v View, err error) {
	verr := &ViewError{View: v.base().DisplayName(), Notification: ctx.kind, Err: err}
	ctx.failures = append(ctx.failures, verr)
	m.logger.Error("model: view notification failed",
		"view", verr.View, "notification", verr.Notification, "error", err)
}

// notifyView delivers n to a single view outside of any fan-out, used for
// attach/detach.
func (m *Model) notifyView(v View, n Notification) {
	ctx := &dispatchContext{}
	if err := m.deliver(ctx, v, func(View) Notification { return n }); err != nil {
		m.reportViewFailure(ctx, v, err)
	}
}
