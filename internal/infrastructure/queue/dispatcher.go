package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusevent/campusevent-api/internal/api/metrics"
	"github.com/campusevent/campusevent-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	jobTimeout     = 30 * time.Second
)

// Dispatcher routes geocoding jobs to a fixed set of workers using consistent
// hashing on the event id, so jobs for one event run in submission order.
// Coordinates from a job whose location has since changed are discarded by
// the repository.
type Dispatcher struct {
	workers  []chan ports.GeocodeJob
	enricher ports.EventEnricher
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, enricher ports.EventEnricher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.GeocodeJob, numWorkers),
		enricher: enricher,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.GeocodeJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands a job to the worker responsible for its event. It never
// blocks the caller: when the worker's buffer is full the job is dropped and
// the event simply stays without coordinates.
func (d *Dispatcher) Enqueue(job ports.GeocodeJob) {
	idx := d.shardIndex(job.EventID)
	select {
	case d.workers[idx] <- job:
		metrics.GeocodeQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.GeocodeJobsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("event_id", job.EventID).
			Int("worker_id", idx).
			Msg("geocode queue full, job dropped")
	}
}

// shardIndex maps an event id deterministically to a worker index.
func (d *Dispatcher) shardIndex(eventID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(eventID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.GeocodeJob) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.GeocodeQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.process(ctx, id, job)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, job ports.GeocodeJob) {
	start := time.Now()
	jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	err := d.enricher.Process(jobCtx, job)
	metrics.GeocodeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GeocodeJobsTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("event_id", job.EventID).
			Int("worker_id", id).
			Msg("geocoding failed")
		return
	}
	metrics.GeocodeJobsTotal.WithLabelValues("processed").Inc()
}
