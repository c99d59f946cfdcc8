package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportservice/models"
)

type fakeGenerator struct {
	mu     sync.Mutex
	failOn map[string]bool
	seen   []string
}

func (g *fakeGenerator) GenerateFromScan(_ context.Context, scanID string) (*GeneratedReport, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seen = append(g.seen, scanID)
	if g.failOn[scanID] {
		return nil, errors.New("scanner fora do ar")
	}
	return &GeneratedReport{ID: scanID, PDFPath: "reports/" + scanID + ".pdf"}, nil
}

type fakeAcker struct {
	mu      sync.Mutex
	handles []string
}

func (a *fakeAcker) Delete(_ context.Context, h string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handles = append(a.handles, h)
}

func TestJobConsumerDeletesEveryJobOnce(t *testing.T) {
	jobs := make(chan *models.ReportJob, 3)
	jobs <- &models.ReportJob{ScanID: "a", ReceiptHandle: "h-a"}
	jobs <- &models.ReportJob{ScanID: "b", ReceiptHandle: "h-b"}
	jobs <- &models.ReportJob{ScanID: "c", ReceiptHandle: "h-c"}
	close(jobs)

	gen := &fakeGenerator{failOn: map[string]bool{"b": true}}
	acker := &fakeAcker{}
	consumer := &DefaultJobConsumer{Generator: gen, Acker: acker}
	consumer.Start(context.Background(), jobs, 2)

	sort.Strings(gen.seen)
	sort.Strings(acker.handles)
	assert.Equal(t, []string{"a", "b", "c"}, gen.seen)
	assert.Equal(t, []string{"h-a", "h-b", "h-c"}, acker.handles)
}

type fakeSQS struct {
	mu       sync.Mutex
	batches  [][]types.Message
	deleted  []string
	received int
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	f.received++
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		f.mu.Unlock()
		return &sqs.ReceiveMessageOutput{Messages: batch}, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeSQS) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func TestSQSProducerDeliversJobs(t *testing.T) {
	client := &fakeSQS{batches: [][]types.Message{{
		{Body: aws.String(`{"scan_id":"scan-1","requested_by":"ci"}`), ReceiptHandle: aws.String("h-1")},
		{Body: aws.String(`not json`), ReceiptHandle: aws.String("h-bad")},
		{Body: aws.String(`{"scan_id":"scan-2"}`), ReceiptHandle: aws.String("h-2")},
	}}}
	producer := &DefaultSQSProducer{Client: client, QueueURL: "https://sqs.local/queue", WaitSeconds: 1}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	jobs := producer.Start(ctx)

	var got []*models.ReportJob
	for len(got) < 2 {
		select {
		case j := <-jobs:
			got = append(got, j)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout esperando jobs")
		}
	}
	cancel()
	for range jobs {
	}

	require.Len(t, got, 2)
	assert.Equal(t, "scan-1", got[0].ScanID)
	assert.Equal(t, "ci", got[0].RequestedBy)
	assert.Equal(t, "h-1", got[0].ReceiptHandle)
	assert.Equal(t, "scan-2", got[1].ScanID)

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, []string{"h-bad"}, client.deleted)
}

func TestSQSProducerDeleteIgnoresEmptyHandle(t *testing.T) {
	client := &fakeSQS{}
	producer := &DefaultSQSProducer{Client: client, QueueURL: "q"}
	producer.Delete(context.Background(), "")
	assert.Empty(t, client.deleted)
}
