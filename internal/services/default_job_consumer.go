package services

import (
	"context"
	"sync"

	"reportservice/internal/logger"
	"reportservice/models"
)

// Generator gera o relatório de um scan; implementado por ReportService.
type Generator interface {
	GenerateFromScan(ctx context.Context, scanID string) (*GeneratedReport, error)
}

// Acker confirma o processamento de uma mensagem.
type Acker interface {
	Delete(ctx context.Context, receiptHandle string)
}

// DefaultJobConsumer implementa um consumer que processa os jobs.
type DefaultJobConsumer struct {
	Generator Generator
	Acker     Acker
}

// Start consome jobChan com numWorkers workers até o canal fechar. Toda mensagem
// é removida da fila após uma tentativa, com ou sem sucesso; não há nova entrega.
func (c *DefaultJobConsumer) Start(ctx context.Context, jobChan <-chan *models.ReportJob, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobChan {
				logger.Log.Debugf("[Consumer Worker %d] Processando job: %s", workerID, job.ScanID)
				out, err := c.Generator.GenerateFromScan(ctx, job.ScanID)
				if c.Acker != nil {
					c.Acker.Delete(ctx, job.ReceiptHandle)
				}
				if err != nil {
					logger.Log.Errorf("[Consumer Worker %d] Job %s descartado após falha: %v", workerID, job.ScanID, err)
					continue
				}
				logger.Log.Debugf("[Consumer Worker %d] Job %s finalizado com sucesso: %s", workerID, job.ScanID, out.PDFPath)
			}
		}(i)
	}
	wg.Wait()
}
