// internal/pipeline/telemetry/elastic.go
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"mindline-backend/internal/common/logger"
)

// ElasticSink indexes events asynchronously through a bounded queue.
// When the queue is full, events are dropped: telemetry never applies
// backpressure to the turn.
type ElasticSink struct {
	client *elasticsearch.Client
	index  string
	queue  chan Event
	logger logger.Logger
	wg     sync.WaitGroup
	once   sync.Once
}

func NewElasticSink(client *elasticsearch.Client, index string, queueSize int, log logger.Logger) *ElasticSink {
	if queueSize <= 0 {
		queueSize = 1024
	}
	s := &ElasticSink{
		client: client,
		index:  index,
		queue:  make(chan Event, queueSize),
		logger: log.With(map[string]interface{}{"component": "telemetry-elastic"}),
	}
	s.wg.Add(1)
	go s.drain()
	return s
}

func (s *ElasticSink) Emit(_ context.Context, event Event) {
	select {
	case s.queue <- event:
	default:
		s.logger.Warn("telemetry queue full, dropping event", map[string]interface{}{
			"type": event.Type,
		})
	}
}

// Close stops accepting events and flushes the queue.
func (s *ElasticSink) Close() {
	s.once.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
}

func (s *ElasticSink) drain() {
	defer s.wg.Done()
	for event := range s.queue {
		s.indexEvent(event)
	}
}

func (s *ElasticSink) indexEvent(event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		s.logger.WithError(err).Warn("failed to index telemetry event", nil)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		s.logger.Warn("telemetry index request rejected", map[string]interface{}{
			"status": res.Status(),
		})
	}
}
