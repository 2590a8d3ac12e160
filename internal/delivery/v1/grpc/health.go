package grpc

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/market-backend/pkg/logger"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Probe проверяет доступность одной зависимости.
type Probe func(ctx context.Context) error

// HealthProbe периодически опрашивает зависимости и выставляет общий статус сервиса ("").
// Статус SERVING, только если все пробы прошли.
type HealthProbe struct {
	health   *health.Server
	probes   map[string]Probe
	interval time.Duration
	timeout  time.Duration
	logger   logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHealthProbe(h *health.Server, probes map[string]Probe, interval time.Duration, logger logger.Logger) *HealthProbe {
	return &HealthProbe{
		health:   h,
		probes:   probes,
		interval: interval,
		timeout:  interval / 2,
		logger:   logger,
	}
}

func (p *HealthProbe) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	p.check(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.check(ctx)
			}
		}
	}()
}

func (p *HealthProbe) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *HealthProbe) check(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING

	for name, probe := range p.probes {
		probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
		err := probe(probeCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warnf("Health probe %s failed: %v", name, err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}

	p.health.SetServingStatus("", status)
}
