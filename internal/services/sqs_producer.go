package services

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"reportservice/internal/jsonutil"
	"reportservice/internal/logger"
	"reportservice/models"
)

// SQSAPI é o subconjunto do cliente SQS usado pelo producer.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// DefaultSQSProducer lê pedidos de relatório da fila e os entrega em um canal.
type DefaultSQSProducer struct {
	Client   SQSAPI
	QueueURL string

	WaitSeconds int32
	MaxMessages int32
	// ErrorBackoff é a pausa após uma falha de ReceiveMessage.
	ErrorBackoff time.Duration
}

func (p *DefaultSQSProducer) Start(ctx context.Context) <-chan *models.ReportJob {
	jobChan := make(chan *models.ReportJob)
	go func() {
		defer close(jobChan)
		for ctx.Err() == nil {
			out, err := p.Client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
				QueueUrl:            aws.String(p.QueueURL),
				MaxNumberOfMessages: p.maxMessages(),
				WaitTimeSeconds:     p.waitSeconds(),
			})
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					return
				}
				logger.Log.Errorf("[SQS Producer] Erro ao receber mensagens: %v", err)
				if !sleep(ctx, p.backoff()) {
					return
				}
				continue
			}

			for _, msg := range out.Messages {
				job, err := decodeJob(msg.Body)
				if err != nil {
					// Mensagem inválida nunca vai funcionar; remove da fila.
					logger.Log.Errorf("[SQS Producer] Mensagem inválida descartada: %v", err)
					p.Delete(ctx, aws.ToString(msg.ReceiptHandle))
					continue
				}
				job.ReceiptHandle = aws.ToString(msg.ReceiptHandle)
				logger.Log.Debugf("[SQS Producer] Job recebido para o scan %s", job.ScanID)
				select {
				case jobChan <- job:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return jobChan
}

// Delete remove a mensagem da fila após o processamento.
func (p *DefaultSQSProducer) Delete(ctx context.Context, receiptHandle string) {
	if receiptHandle == "" {
		return
	}
	_, err := p.Client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(p.QueueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		logger.Log.Errorf("[SQS Producer] Erro ao remover mensagem: %v", err)
	}
}

func decodeJob(body *string) (*models.ReportJob, error) {
	if body == nil {
		return nil, errors.New("mensagem sem corpo")
	}
	var job models.ReportJob
	if err := jsonutil.Unmarshal([]byte(*body), &job); err != nil {
		return nil, err
	}
	if job.ScanID == "" {
		return nil, errors.New("mensagem sem scan_id")
	}
	return &job, nil
}

func (p *DefaultSQSProducer) waitSeconds() int32 {
	if p.WaitSeconds > 0 {
		return p.WaitSeconds
	}
	return 20
}

func (p *DefaultSQSProducer) maxMessages() int32 {
	if p.MaxMessages > 0 {
		return p.MaxMessages
	}
	return 10
}

func (p *DefaultSQSProducer) backoff() time.Duration {
	if p.ErrorBackoff > 0 {
		return p.ErrorBackoff
	}
	return 5 * time.Second
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
