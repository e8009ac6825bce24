// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

func pipelineTestScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, monitoringv1.AddToScheme(scheme))
	return scheme
}

// fakeHandler is a minimal Handler whose Validate/Reconcile behavior is
// injected per test, standing in for a real per-kind handler so Pipeline's
// own control flow can be exercised in isolation.
type fakeHandler struct {
	validateErr     error
	reconcileErr    error
	reconciled      int
	statusPatchedOK bool
	lastReason      string
}

func (h *fakeHandler) NewObject() Object     { return &monitoringv1.Silence{} }
func (h *fakeHandler) Validate(Object) error { return h.validateErr }
func (h *fakeHandler) Reconcile(context.Context, Object) (ctrl.Result, error) {
	h.reconciled++
	return ctrl.Result{}, h.reconcileErr
}
func (h *fakeHandler) PatchStatus(context.Context, client.Client, Object) error { return nil }
func (h *fakeHandler) SetReady(_ Object, _ metav1.Time, ok bool, reason, _ string) {
	h.statusPatchedOK = ok
	h.lastReason = reason
}

func newPipelineFixture(t *testing.T, h Handler, objs ...client.Object) *Pipeline {
	t.Helper()
	c := fake.NewClientBuilder().WithScheme(pipelineTestScheme(t)).WithObjects(objs...).Build()
	return &Pipeline{
		Client:  c,
		Scheme:  pipelineTestScheme(t),
		Logger:  log.NewNopLogger(),
		Handler: h,
		Now:     func() metav1.Time { return metav1.NewTime(time.Unix(1700000000, 0)) },
	}
}

func TestPipeline_Reconcile_ValidationFailureSkipsReconcileAndRequeuesNever(t *testing.T) {
	sil := &monitoringv1.Silence{ObjectMeta: metav1.ObjectMeta{Name: "s1"}}
	h := &fakeHandler{validateErr: errors.New("bad spec")}
	p := newPipelineFixture(t, h, sil)

	res, err := p.Reconcile(context.Background(), ctrl.Request{NamespacedName: client.ObjectKeyFromObject(sil)})

	require.NoError(t, err)
	assert.Equal(t, ctrl.Result{}, res, "a validation failure must not arm a timer-driven requeue")
	assert.Equal(t, 0, h.reconciled, "Reconcile must not run when Validate fails")
	assert.False(t, h.statusPatchedOK)
	assert.Equal(t, "ValidationFailed", h.lastReason)
}

func TestPipeline_Reconcile_ReconcileFailureIsSwallowedWithoutRequeue(t *testing.T) {
	sil := &monitoringv1.Silence{ObjectMeta: metav1.ObjectMeta{Name: "s1"}}
	h := &fakeHandler{reconcileErr: errors.New("transient")}
	p := newPipelineFixture(t, h, sil)

	res, err := p.Reconcile(context.Background(), ctrl.Request{NamespacedName: client.ObjectKeyFromObject(sil)})

	require.NoError(t, err, "reconcile errors are swallowed at the pipeline boundary")
	assert.Equal(t, ctrl.Result{}, res, "retry is event-driven only, never a RequeueAfter timer")
	assert.Equal(t, 1, h.reconciled)
	assert.Equal(t, "ReconcileFailed", h.lastReason)
}

func TestPipeline_Reconcile_SuccessSetsReadyTrue(t *testing.T) {
	sil := &monitoringv1.Silence{ObjectMeta: metav1.ObjectMeta{Name: "s1"}}
	h := &fakeHandler{}
	p := newPipelineFixture(t, h, sil)

	_, err := p.Reconcile(context.Background(), ctrl.Request{NamespacedName: client.ObjectKeyFromObject(sil)})

	require.NoError(t, err)
	assert.True(t, h.statusPatchedOK)
	assert.Equal(t, "Reconciled", h.lastReason)
}

func TestPipeline_Reconcile_MissingObjectIsNotAnError(t *testing.T) {
	h := &fakeHandler{}
	p := newPipelineFixture(t, h)

	_, err := p.Reconcile(context.Background(), ctrl.Request{NamespacedName: client.ObjectKey{Name: "missing"}})

	require.NoError(t, err)
	assert.Equal(t, 0, h.reconciled)
}
