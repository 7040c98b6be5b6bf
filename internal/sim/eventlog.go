package sim

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	logBufferSize    = 1024 // circular buffer slots
	logMaxPerSec     = 5000 // global rate limit on appended records
	logFlushSize     = 64   // records per batch write
	logFlushInterval = 100 * time.Millisecond
)

// EventLog is an optional append-only NDJSON sink for the event stream.
// The producer writes into a lock-free circular buffer; a background
// goroutine batches records to disk. When the buffer overruns, the
// oldest records are dropped rather than stalling the tick.
type EventLog struct {
	buffer    [logBufferSize]Event
	writeHead uint64 // atomic
	readHead  uint64 // atomic

	limiter *rate.Limiter

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	filePath string
	file     *os.File
	fileMu   sync.Mutex

	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
}

func NewEventLog() *EventLog {
	return &EventLog{
		limiter:  rate.NewLimiter(logMaxPerSec, logMaxPerSec/10),
		stopChan: make(chan struct{}),
	}
}

// Start opens the file and launches the writer goroutine. Safe to call
// once; a second call is a no-op.
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}
	el.filePath = filePath

	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		el.file = file
	}

	el.running.Store(true)
	el.writerWg.Add(1)
	go el.writerLoop()
	return nil
}

// Stop flushes remaining records and closes the file.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		el.fileMu.Lock()
		if el.file != nil {
			el.file.Close()
		}
		el.fileMu.Unlock()
	})
}

// Append records an event. Returns false when rate limited, not
// running, or dropped under backpressure.
func (el *EventLog) Append(event Event) bool {
	if !el.running.Load() {
		return false
	}
	if !el.limiter.Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}

	// head counts records written; the new record lands at head-1.
	head := atomic.AddUint64(&el.writeHead, 1)
	tail := atomic.LoadUint64(&el.readHead)
	if head-tail > logBufferSize {
		// Rolling window: overwrite the oldest record.
		atomic.AddUint64(&el.readHead, 1)
		atomic.AddUint64(&el.droppedCount, 1)
	}

	el.buffer[(head-1)%logBufferSize] = event
	atomic.AddUint64(&el.totalCount, 1)
	return true
}

func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(logFlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, logFlushSize)
	for {
		select {
		case <-el.stopChan:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
			return
		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
		}
	}
}

func (el *EventLog) collectBatch(batch []Event) []Event {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	for i := tail; i < head && len(batch) < logFlushSize; i++ {
		batch = append(batch, el.buffer[i%logBufferSize])
	}
	if len(batch) > 0 {
		atomic.AddUint64(&el.readHead, uint64(len(batch)))
	}
	return batch
}

func (el *EventLog) flushBatch(batch []Event) {
	el.fileMu.Lock()
	defer el.fileMu.Unlock()

	if el.file == nil {
		return
	}
	for _, event := range batch {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		el.file.Write(data)
		el.file.Write([]byte("\n"))
	}
}

// Stats returns counters for the debug endpoint.
func (el *EventLog) Stats() map[string]uint64 {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)
	return map[string]uint64{
		"total":   atomic.LoadUint64(&el.totalCount),
		"dropped": atomic.LoadUint64(&el.droppedCount),
		"pending": head - tail,
	}
}
