package phaselight

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panickingObserver struct {
	BaseObserver
	errs []error
}

func (o *panickingObserver) OnPhaseChange(change PhaseChange) {
	panic("observer exploded")
}

func (o *panickingObserver) OnSend(lightID string, phase Phase) {
	panic("send exploded")
}

func (o *panickingObserver) OnError(lightID string, err error) {
	o.errs = append(o.errs, err)
}

// stoppingObserver stops its light after the first phase change.
type stoppingObserver struct {
	BaseObserver
	light   *TrafficLight
	once    sync.Once
	stopped chan error
}

func (o *stoppingObserver) OnPhaseChange(change PhaseChange) {
	o.once.Do(func() {
		go func() { o.stopped <- o.light.Stop() }()
	})
}

type minimalObserver struct {
	changes int
}

func (o *minimalObserver) OnPhaseChange(change PhaseChange) {
	o.changes++
}

func TestObserverManager_AddRemove(t *testing.T) {
	om := NewObserverManager()
	first := NewTestObserver()
	second := NewTestObserver()

	om.AddObserver(first)
	om.AddObserver(second)
	om.AddObserver(nil)
	assert.Equal(t, 2, om.Len())

	om.RemoveObserver(first)
	assert.Equal(t, 1, om.Len())

	om.NotifyPhaseChange(NewPhaseChange("light", Red, Green, time.Second, time.Second, time.Now()))
	assert.Equal(t, 0, first.ChangeCount())
	assert.Equal(t, 1, second.ChangeCount())
}

func TestObserverManager_Fanout(t *testing.T) {
	om := NewObserverManager()
	observer := NewTestObserver()
	om.AddObserver(observer)

	om.NotifyCycleStarted("light")
	om.NotifySend("light", Green)
	om.NotifyPhaseChange(NewPhaseChange("light", Red, Green, 4*time.Second, 4*time.Second, time.Now()))
	om.NotifyError("light", errors.New("boom"))
	om.NotifyCycleStopped("light")

	assert.Equal(t, []string{"light"}, observer.Started)
	assert.Equal(t, []Phase{Green}, observer.Sends)
	assert.Equal(t, 1, observer.ChangeCount())
	assert.Len(t, observer.Errors, 1)
	assert.Equal(t, []string{"light"}, observer.Stopped)

	observer.Reset()
	assert.Equal(t, 0, observer.ChangeCount())
	assert.Empty(t, observer.Sends)
}

func TestObserverManager_MinimalObserver(t *testing.T) {
	om := NewObserverManager()
	observer := &minimalObserver{}
	om.AddObserver(observer)

	om.NotifySend("light", Red)
	om.NotifyCycleStarted("light")
	om.NotifyPhaseChange(PhaseChange{})

	assert.Equal(t, 1, observer.changes, "only the required method is called")
}

func TestObserverManager_PanicRecovery(t *testing.T) {
	om := NewObserverManager()
	bad := &panickingObserver{}
	good := NewTestObserver()
	om.AddObserver(bad)
	om.AddObserver(good)

	require.NotPanics(t, func() {
		om.NotifyPhaseChange(PhaseChange{LightID: "light", To: Green})
		om.NotifySend("light", Green)
	})

	assert.Equal(t, 1, good.ChangeCount(), "later observers still run")
	require.Len(t, bad.errs, 2)
	assert.Equal(t, ErrCodeObserverPanic, GetErrorCode(bad.errs[0]))
	assert.Contains(t, bad.errs[1].Error(), "send exploded")
}

func TestTrafficLight_PanickingObserverKeepsCycling(t *testing.T) {
	bad := &panickingObserver{}
	light, observer := CreateFastLight(t, fastScale, WithObserver(bad))

	require.NoError(t, light.Simulate())
	require.True(t, observer.WaitForChanges(2, 2*time.Second))
	require.NoError(t, light.Stop())

	assert.NotEmpty(t, bad.errs)
}

func TestTrafficLight_ObserverStopsLight(t *testing.T) {
	stopper := &stoppingObserver{stopped: make(chan error, 1)}
	light, observer := CreateFastLight(t, fastScale, WithObserver(stopper))
	stopper.light = light

	require.NoError(t, light.Simulate())

	select {
	case err := <-stopper.stopped:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("stop from observer did not return")
	}

	assert.False(t, light.IsRunning())
	assert.Equal(t, 1, observer.StoppedCount())
}
