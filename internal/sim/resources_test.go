package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dig/internal/event"
)

func newResources() (*Resources, *event.Queue) {
	q := event.New()
	return NewResources(q, 100, 50, 80, 1), q
}

func TestConsumeSpendsAndReports(t *testing.T) {
	rs, q := newResources()
	var deltas []float64
	q.Subscribe(event.ResourceChanged, func(ev event.Event) {
		deltas = append(deltas, ev.Payload["delta"].(float64))
	})

	assert.True(t, rs.Consume(Power, 30, "test"))
	assert.Equal(t, 70.0, rs.Current(Power))

	q.Flush()
	assert.Equal(t, []float64{-30}, deltas)
}

func TestConsumeRefusesWhenInsufficient(t *testing.T) {
	rs, _ := newResources()

	assert.False(t, rs.Consume(Memory, 60, "test"))
	assert.Equal(t, 50.0, rs.Current(Memory), "failed consume must not change the pool")
}

func TestConsumeToZeroPostsDepleted(t *testing.T) {
	rs, q := newResources()
	depleted := ""
	q.Subscribe(event.ResourceDepleted, func(ev event.Event) {
		depleted = ev.Payload["resource"].(string)
	})

	assert.True(t, rs.Consume(Energy, 80, "test"))
	assert.True(t, rs.Depleted(Energy))

	q.Flush()
	assert.Equal(t, "ENERGY", depleted)
}

func TestRestoreCapsAtMaximum(t *testing.T) {
	rs, _ := newResources()
	rs.Consume(Power, 10, "test")

	rs.Restore(Power, 500, "test")
	assert.Equal(t, 100.0, rs.Current(Power))
}

func TestSetMaximumClampsCurrent(t *testing.T) {
	rs, _ := newResources()

	rs.SetMaximum(Memory, 30)
	assert.Equal(t, 30.0, rs.Maximum(Memory))
	assert.Equal(t, 30.0, rs.Current(Memory))

	rs.SetMaximum(Memory, 60)
	assert.Equal(t, 30.0, rs.Current(Memory), "raising the cap must not grant funds")
}

func TestTickDrainsEnergy(t *testing.T) {
	rs, _ := newResources()

	rs.Tick()
	rs.Tick()
	assert.Equal(t, 78.0, rs.Current(Energy))
}

func TestRatio(t *testing.T) {
	rs, _ := newResources()
	rs.Consume(Energy, 40, "test")
	assert.InDelta(t, 0.5, rs.Ratio(Energy), 1e-9)
}
