package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type gauges struct {
	cpu    prometheus.Gauge
	ram    prometheus.Gauge
	disk   prometheus.Gauge
	uptime prometheus.Gauge
}

func newGauges(reg prometheus.Registerer) *gauges {
	g := &gauges{
		cpu: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aria_host_cpu_percent",
			Help: "Simulated CPU load.",
		}),
		ram: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aria_host_ram_percent",
			Help: "Simulated memory usage.",
		}),
		disk: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aria_host_disk_percent",
			Help: "Simulated disk usage.",
		}),
		uptime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aria_host_uptime_seconds",
			Help: "Time since the sampler started.",
		}),
	}
	for _, c := range []*prometheus.Gauge{&g.cpu, &g.ram, &g.disk, &g.uptime} {
		if err := reg.Register(*c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				*c = are.ExistingCollector.(prometheus.Gauge)
			}
		}
	}
	return g
}

func (g *gauges) set(s Snapshot) {
	if g == nil {
		return
	}
	g.cpu.Set(s.CPU)
	g.ram.Set(s.RAM)
	g.disk.Set(s.Disk)
	g.uptime.Set(s.Uptime.Seconds())
}
