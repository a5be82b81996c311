package iwl

import "sync"

// Task is a unit of work executed by a Pool.
type Task interface {
	Execute()
}

// Pool runs tasks on a fixed number of goroutines.
type Pool struct {
	tasks chan Task
	wg    sync.WaitGroup
}

// NewPool starts threadsNum workers. Values below one are treated as one.
func NewPool(threadsNum int) *Pool {
	if threadsNum < 1 {
		threadsNum = 1
	}
	pool := &Pool{tasks: make(chan Task, threadsNum)}
	pool.wg.Add(threadsNum)
	for worker := 0; worker < threadsNum; worker++ {
		go func() {
			defer pool.wg.Done()
			for task := range pool.tasks {
				task.Execute()
			}
		}()
	}
	return pool
}

// AddTask queues a task. It blocks while all workers are busy and the queue is full.
func (pool *Pool) AddTask(task Task) {
	pool.tasks <- task
}

// Close tells the workers that no more tasks will come.
func (pool *Pool) Close() {
	close(pool.tasks)
}

// WaitAll waits until every queued task is done. Close must be called first.
func (pool *Pool) WaitAll() {
	pool.wg.Wait()
}

// TaskSolveVertices solves one (configuration, reference outcome) pair and stores the
// outcome at its own index, so tasks never share a slot.
type TaskSolveVertices struct {
	p         Distribution
	job       searchJob
	epsilon   float64
	results   []Candidate
	accepted  []bool
	resultInd int
}

// Execute implements Task.
func (task *TaskSolveVertices) Execute() {
	task.results[task.resultInd], task.accepted[task.resultInd] = task.job.solve(task.p, task.epsilon)
}
