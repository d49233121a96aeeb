package jobqueue

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/viney-shih/goroutines"

	"github.com/floorbook/goapi/base/backoff"
	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/goroutine"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/base/metrics"
	"github.com/floorbook/goapi/domain/jobqueue"
	"github.com/floorbook/goapi/domain/keys"
	"github.com/floorbook/goapi/service/redis"
)

const (
	// dedupeTtl bounds how long a pending job id blocks duplicates
	dedupeTtl = 10 * time.Minute
	// jobTimeout is the processing budget of one job
	jobTimeout = 60 * time.Second
	maxRetries = 10
	poolSize   = 20
)

// envelope is the wire format of one queued job
type envelope struct {
	JobId   string          `json:"jobId"`
	Payload json.RawMessage `json:"payload"`
	Retries int             `json:"retries"`
}

type ServiceCfg struct {
	Redis redis.Service
}

type impl struct {
	redis redis.Service
	met   metrics.Service
	pool  *goroutines.Pool

	mu       sync.Mutex
	handlers map[jobqueue.Queue]jobqueue.Handler
	closing  chan struct{}
	once     sync.Once
}

func New(cfg *ServiceCfg) interface {
	jobqueue.Publisher
	jobqueue.Consumer
} {
	return &impl{
		redis:    cfg.Redis,
		met:      metrics.New("jobqueue"),
		pool:     goroutines.NewPool(poolSize, goroutines.WithTaskQueueLength(256)),
		handlers: map[jobqueue.Queue]jobqueue.Handler{},
		closing:  make(chan struct{}),
	}
}

func queueKey(q jobqueue.Queue) string {
	return keys.RedisKey(keys.PfxJobQueue, string(q))
}

func delayedKey(q jobqueue.Queue) string {
	return keys.RedisKey(keys.PfxJobQueue, string(q), "delayed")
}

func dedupeKey(q jobqueue.Queue, jobId string) string {
	return keys.RedisKey(keys.PfxJobDedupe, string(q), jobId)
}

func (im *impl) Publish(c ctx.Ctx, jobs ...*jobqueue.Job) error {
	for _, job := range jobs {
		if job.JobId != "" {
			ok, err := im.redis.SetNX(c, dedupeKey(job.Queue, job.JobId), []byte("1"), dedupeTtl)
			if err != nil {
				return err
			}
			if !ok {
				// a job with the same id is still pending
				im.met.BumpSum("publish.dedupe", 1, "queue", string(job.Queue))
				continue
			}
		}

		env, err := json.Marshal(&envelope{JobId: job.JobId, Payload: job.Payload})
		if err != nil {
			return err
		}

		if job.Delay > 0 {
			readyAt := float64(time.Now().Add(job.Delay).UnixMilli())
			if err := im.redis.ZAdd(c, delayedKey(job.Queue), readyAt, env); err != nil {
				return err
			}
		} else {
			if err := im.redis.LPush(c, queueKey(job.Queue), env); err != nil {
				return err
			}
		}
		im.met.BumpSum("publish", 1, "queue", string(job.Queue))
	}
	return nil
}

func (im *impl) Subscribe(queue jobqueue.Queue, handler jobqueue.Handler) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.handlers[queue] = handler
}

func (im *impl) Run(c ctx.Ctx) error {
	im.mu.Lock()
	queues := make([]jobqueue.Queue, 0, len(im.handlers))
	for q := range im.handlers {
		queues = append(queues, q)
	}
	im.mu.Unlock()

	for _, q := range queues {
		queue := q
		goroutine.RecoverableGo(func() { im.moveDelayedLoop(c, queue) })
		goroutine.RecoverableGo(func() { im.consumeLoop(c, queue) })
	}

	select {
	case <-c.Done():
	case <-im.closing:
	}
	return nil
}

func (im *impl) Close() {
	im.once.Do(func() {
		close(im.closing)
		im.pool.Release()
	})
}

// moveDelayedLoop promotes due delayed jobs into the ready list
func (im *impl) moveDelayedLoop(c ctx.Ctx, queue jobqueue.Queue) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-c.Done():
			return
		case <-im.closing:
			return
		case <-ticker.C:
		}

		now := float64(time.Now().UnixMilli())
		due, err := im.redis.ZRangeByScore(c, delayedKey(queue), 0, now, 100)
		if err != nil && err != redis.ErrNotFound {
			c.WithFields(log.Fields{"err": err, "queue": queue}).Error("ZRangeByScore failed")
			continue
		}
		for _, env := range due {
			if err := im.redis.LPush(c, queueKey(queue), env); err != nil {
				c.WithFields(log.Fields{"err": err, "queue": queue}).Error("LPush failed")
				break
			}
			if err := im.redis.ZRem(c, delayedKey(queue), env); err != nil {
				c.WithFields(log.Fields{"err": err, "queue": queue}).Error("ZRem failed")
			}
		}
	}
}

func (im *impl) consumeLoop(c ctx.Ctx, queue jobqueue.Queue) {
	im.mu.Lock()
	handler := im.handlers[queue]
	im.mu.Unlock()

	bo := backoff.NewExponential(100*time.Millisecond, 5*time.Second)
	for {
		select {
		case <-c.Done():
			return
		case <-im.closing:
			return
		default:
		}

		raw, err := im.redis.RPop(c, queueKey(queue))
		if err == redis.ErrNotFound {
			if err := bo.Backoff(c); err != nil {
				return
			}
			continue
		}
		if err != nil {
			c.WithFields(log.Fields{"err": err, "queue": queue}).Error("RPop failed")
			if err := bo.Backoff(c); err != nil {
				return
			}
			continue
		}
		bo.Reset()

		env := &envelope{}
		if err := json.Unmarshal(raw, env); err != nil {
			c.WithFields(log.Fields{"err": err, "queue": queue}).Error("bad job envelope")
			continue
		}

		if err := im.pool.Schedule(func() {
			im.process(c, queue, handler, env)
		}); err != nil {
			c.WithFields(log.Fields{"err": err, "queue": queue}).Error("pool.Schedule failed")
			im.process(c, queue, handler, env)
		}
	}
}

func (im *impl) process(c ctx.Ctx, queue jobqueue.Queue, handler jobqueue.Handler, env *envelope) {
	jobCtx, cancel := ctx.WithTimeout(c, jobTimeout)
	defer cancel()
	jobCtx = ctx.WithValues(jobCtx, map[string]interface{}{
		"queue":   string(queue),
		"jobId":   env.JobId,
		"retries": strconv.Itoa(env.Retries),
	})

	defer im.met.BumpTime("process.time", "queue", string(queue)).End()

	err := handler(jobCtx, env.Payload)
	if err == nil {
		if env.JobId != "" {
			if _, err := im.redis.Del(c, dedupeKey(queue, env.JobId)); err != nil {
				c.WithFields(log.Fields{"err": err, "queue": queue}).Error("Del dedupe failed")
			}
		}
		return
	}

	im.met.BumpSum("process.err", 1, "queue", string(queue))
	jobCtx.WithFields(log.Fields{"err": err}).Error("job failed")

	if env.Retries+1 >= maxRetries {
		jobCtx.Error("job dropped, retry budget exhausted")
		if env.JobId != "" {
			im.redis.Del(c, dedupeKey(queue, env.JobId))
		}
		return
	}

	// requeue with exponential delay
	env.Retries++
	retried, err := json.Marshal(env)
	if err != nil {
		jobCtx.WithField("err", err).Error("marshal retry envelope failed")
		return
	}
	delay := time.Duration(1<<uint(env.Retries)) * time.Second
	readyAt := float64(time.Now().Add(delay).UnixMilli())
	if err := im.redis.ZAdd(c, delayedKey(queue), readyAt, retried); err != nil {
		jobCtx.WithField("err", err).Error("requeue failed")
	}
}
