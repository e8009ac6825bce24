// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package reconcile implements the validate -> reconcile -> status-patch
// handler pipeline shared by every monitoring.yuptime.io kind, wired onto
// controller-runtime's Reconciler interface.
package reconcile

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Object is the subset of behavior every kind in this API group exposes
// that the pipeline needs: standard metadata plus a condition list it can
// read and overwrite.
type Object interface {
	client.Object
}

// Handler implements the per-kind validate/reconcile behavior. Obj is a
// freshly-fetched copy of the resource; Handler implementations mutate its
// Status in place and return whether reconciliation succeeded.
type Handler interface {
	// NewObject returns a zero-value instance of the kind, for Get.
	NewObject() Object
	// Validate checks the spec structurally, independent of cluster state.
	// A non-nil error is surfaced as the ValidationFailed reason and the
	// object is not reconciled further.
	Validate(obj Object) error
	// Reconcile drives cluster state to match obj's spec. A non-nil error
	// is surfaced as the ReconcileFailed reason.
	Reconcile(ctx context.Context, obj Object) (ctrl.Result, error)
	// PatchStatus applies accumulated condition/observedGeneration state
	// from the in-memory obj onto the API server via a status subresource
	// patch.
	PatchStatus(ctx context.Context, c client.Client, obj Object) error
	// SetReady writes the Ready condition (and any kind-specific status
	// fields already mutated by Reconcile) onto obj.
	SetReady(obj Object, now metav1.Time, ok bool, reason, message string)
}

// DeleteObserver is an optional Handler extension for kinds that need to
// react to deletion (e.g. the Monitor handler cancelling pending scheduler
// work). Implemented via a type assertion in Pipeline.Reconcile rather than
// folded into Handler so kinds with nothing to clean up stay simple.
type DeleteObserver interface {
	OnDeleted(ctx context.Context, req ctrl.Request)
}

// Pipeline is a generic controller-runtime Reconciler that drives any
// Handler through validate -> reconcile -> status-patch.
type Pipeline struct {
	Client  client.Client
	Scheme  *runtime.Scheme
	Logger  log.Logger
	Handler Handler
	Now     func() metav1.Time
}

// NewPipeline constructs a Pipeline with a real-time clock.
func NewPipeline(c client.Client, scheme *runtime.Scheme, logger log.Logger, h Handler) *Pipeline {
	return &Pipeline{
		Client:  c,
		Scheme:  scheme,
		Logger:  logger,
		Handler: h,
		Now:     func() metav1.Time { return metav1.NewTime(time.Now()) },
	}
}

// Reconcile implements sigs.k8s.io/controller-runtime/pkg/reconcile.Reconciler.
func (p *Pipeline) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	obj := p.Handler.NewObject()
	if err := p.Client.Get(ctx, req.NamespacedName, obj); err != nil {
		if apierrors.IsNotFound(err) {
			if do, ok := p.Handler.(DeleteObserver); ok {
				do.OnDeleted(ctx, req)
			}
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, errors.Wrap(err, "get object")
	}

	logger := log.With(p.Logger, "name", req.Name, "namespace", req.Namespace)
	now := p.Now()

	if err := p.Handler.Validate(obj); err != nil {
		level.Warn(logger).Log("msg", "validation failed", "err", err)
		p.Handler.SetReady(obj, now, false, "ValidationFailed", err.Error())
		if perr := p.Handler.PatchStatus(ctx, p.Client, obj); perr != nil {
			level.Error(logger).Log("msg", "patch status after validation failure", "err", perr)
		}
		return ctrl.Result{}, nil
	}

	result, err := p.Handler.Reconcile(ctx, obj)
	if err != nil {
		level.Error(logger).Log("msg", "reconcile failed", "err", err)
		p.Handler.SetReady(obj, now, false, "ReconcileFailed", err.Error())
		if perr := p.Handler.PatchStatus(ctx, p.Client, obj); perr != nil {
			level.Error(logger).Log("msg", "patch status after reconcile failure", "err", perr)
		}
		// No RequeueAfter: the failure is swallowed and the next
		// ADDED/MODIFIED event on this object is the sole retry path, not a
		// timer.
		return ctrl.Result{}, nil
	}

	p.Handler.SetReady(obj, now, true, "Reconciled", "")
	if err := p.Handler.PatchStatus(ctx, p.Client, obj); err != nil {
		level.Error(logger).Log("msg", "patch status", "err", err)
		return ctrl.Result{}, errors.Wrap(err, "patch status")
	}
	return result, nil
}
