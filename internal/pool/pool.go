package pool

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// WorkerPool 工作池，用于处理并发的更新事件
type WorkerPool struct {
	workers    int
	jobQueue   chan Job
	workerPool chan chan Job
	quit       chan bool
	wg         sync.WaitGroup
}

// Job 工作任务接口
type Job interface {
	Execute() error
}

// MessageJob 消息处理任务
type MessageJob struct {
	Handler func() error
}

func (j *MessageJob) Execute() error {
	return j.Handler()
}

// NewWorkerPool 创建新的工作池
func NewWorkerPool(workers int, queueSize int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &WorkerPool{
		workers:    workers,
		jobQueue:   make(chan Job, queueSize),
		workerPool: make(chan chan Job, workers),
		quit:       make(chan bool),
	}
}

// Start 启动工作池
func (p *WorkerPool) Start() {
	for i := 0; i < p.workers; i++ {
		worker := NewWorker(p.workerPool, p.quit)
		worker.Start()
	}

	go p.dispatch()
}

// Stop 停止工作池
func (p *WorkerPool) Stop() {
	close(p.quit)
	p.wg.Wait()
}

// Submit 提交任务
func (p *WorkerPool) Submit(job Job) {
	select {
	case p.jobQueue <- job:
	default:
		// 队列满时，直接执行（防止阻塞）
		go job.Execute()
	}
}

// dispatch 调度任务
func (p *WorkerPool) dispatch() {
	for {
		select {
		case job := <-p.jobQueue:
			select {
			case jobChannel := <-p.workerPool:
				jobChannel <- job
			case <-p.quit:
				return
			}
		case <-p.quit:
			return
		}
	}
}

// Worker 工作者
type Worker struct {
	workerPool chan chan Job
	jobChannel chan Job
	quit       chan bool
}

// NewWorker 创建新工作者
func NewWorker(workerPool chan chan Job, quit chan bool) *Worker {
	return &Worker{
		workerPool: workerPool,
		jobChannel: make(chan Job),
		quit:       quit,
	}
}

// Start 启动工作者
func (w *Worker) Start() {
	go func() {
		for {
			w.workerPool <- w.jobChannel

			select {
			case job := <-w.jobChannel:
				job.Execute()
			case <-w.quit:
				return
			}
		}
	}()
}

// RateLimiter 速率限制器（对齐Telegram API每秒30条的限制）
type RateLimiter struct {
	tokens   chan struct{}
	interval time.Duration
	quit     chan bool
}

// NewRateLimiter 创建速率限制器
func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		tokens:   make(chan struct{}, rate),
		interval: interval,
		quit:     make(chan bool),
	}

	for i := 0; i < rate; i++ {
		rl.tokens <- struct{}{}
	}

	go rl.refill(rate)

	return rl
}

// Allow 检查是否允许执行
func (rl *RateLimiter) Allow() bool {
	select {
	case <-rl.tokens:
		return true
	default:
		return false
	}
}

// Wait 等待直到可以执行
func (rl *RateLimiter) Wait(ctx context.Context) error {
	select {
	case <-rl.tokens:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// refill 补充令牌
func (rl *RateLimiter) refill(rate int) {
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for i := 0; i < rate; i++ {
				select {
				case rl.tokens <- struct{}{}:
				default:
					// 令牌桶已满
				}
			}
		case <-rl.quit:
			return
		}
	}
}

// Stop 停止速率限制器
func (rl *RateLimiter) Stop() {
	close(rl.quit)
}
