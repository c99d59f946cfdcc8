package cli

import (
	"context"
	"errors"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsSQS "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/spf13/cobra"

	"reportservice/internal/logger"
	"reportservice/internal/services"
)

func newConsumeCommand(opts *GlobalOptions) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Generate reports for scan ids read from SQS",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if !cfg.EnableSQS {
				return errors.New("consumo da SQS desabilitado (ENABLE_SQS=false)")
			}
			if cfg.SQSQueueURL == "" {
				return errors.New("SQS_QUEUE_URL não informado")
			}
			if workers > 0 {
				cfg.Workers = workers
			}

			ctx := cmd.Context()
			a, err := bootstrap(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				a.close(shutdownCtx)
			}()

			var awsOpts []func(*awsconfig.LoadOptions) error
			if cfg.AWSRegion != "" {
				awsOpts = append(awsOpts, awsconfig.WithRegion(cfg.AWSRegion))
			}
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
			if err != nil {
				return err
			}

			producer := &services.DefaultSQSProducer{
				Client:   awsSQS.NewFromConfig(awsCfg),
				QueueURL: cfg.SQSQueueURL,
			}
			jobChan := producer.Start(ctx)

			logger.Log.Infof("Consumindo %s com %d workers", cfg.SQSQueueURL, cfg.Workers)
			consumer := &services.DefaultJobConsumer{Generator: a.service, Acker: producer}
			consumer.Start(ctx, jobChan, cfg.Workers)
			logger.Log.Info("Consumer encerrado")
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "Número de workers (padrão: $WORKERS ou 5)")
	return cmd
}
