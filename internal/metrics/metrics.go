// Package metrics exposes Prometheus instrumentation for the editing
// session, fed by command history hooks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/atlasbruce/bramble/pkg/command"
)

// Metrics holds the collectors for editor activity.
type Metrics struct {
	commands *prometheus.CounterVec
	undos    prometheus.Counter
	redos    prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bramble_commands_total",
				Help: "Total number of executed edit commands",
			},
			[]string{"kind"},
		),
		undos: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bramble_undo_total",
			Help: "Total number of undone commands",
		}),
		redos: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bramble_redo_total",
			Help: "Total number of redone commands",
		}),
	}
	reg.MustRegister(m.commands, m.undos, m.redos)
	return m
}

// Hooks returns command history hooks that record editor activity.
func (m *Metrics) Hooks() command.Hooks {
	return command.Hooks{
		OnExecute: func(cmd command.Command) {
			m.commands.WithLabelValues(cmd.Kind()).Inc()
		},
		OnUndo: func(command.Command) { m.undos.Inc() },
		OnRedo: func(command.Command) { m.redos.Inc() },
	}
}
