package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/momo-sms-pipeline/internal/config"
	"github.com/momo-sms-pipeline/internal/data/mongo"
	"github.com/momo-sms-pipeline/internal/data/postgres"
	"github.com/momo-sms-pipeline/internal/domain/message"
	"github.com/momo-sms-pipeline/internal/domain/quarantine"
	"github.com/momo-sms-pipeline/internal/domain/transaction"
	"github.com/momo-sms-pipeline/internal/logger"
	"github.com/momo-sms-pipeline/internal/pipeline"
	"github.com/momo-sms-pipeline/internal/platform/persistence"
)

var backupFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "batch_ingest",
		Short: "Ingest an SMS backup export directly into the transaction store",
		Long: `batch_ingest reads a backup XML export, filters it down to money-service
messages, runs each one through the parsing pipeline and writes the results
straight to the stores, bypassing Kafka. A completed run always exits 0;
per-message failures are counted, not fatal.`,
		RunE: runBatchIngest,
	}

	rootCmd.Flags().StringVarP(&backupFile, "file", "f", "", "path to the backup XML export (required)")
	if err := rootCmd.MarkFlagRequired("file"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBatchIngest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig("batch_ingest")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(cfg)

	data, err := os.ReadFile(backupFile)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	backup, err := message.ParseBackup(data)
	if err != nil {
		return fmt.Errorf("failed to parse backup file: %w", err)
	}

	messages, skipped := backup.FilterMoneyService(cfg.Ingest.OriginMarker)
	log.Info("Backup file loaded",
		"file", backupFile,
		"declared_count", backup.Count,
		"money_service_messages", len(messages),
		"skipped", skipped,
	)

	postgresDB, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer postgresDB.Close()

	mongoDB, err := persistence.NewMongoDB(ctx, log, &cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("failed to initialize MongoDB: %w", err)
	}
	defer func() {
		if err := mongoDB.Close(ctx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}()

	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	quarantineRepo := mongo.NewQuarantineRepository(log, mongoDB.Database())

	parser := pipeline.NewParser()
	counts := ingestMessages(ctx, log, parser, transactionRepo, quarantineRepo, messages)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Count"})
	table.Append([]string{"Processed", strconv.Itoa(counts.processed)})
	table.Append([]string{"Quarantined", strconv.Itoa(counts.quarantined)})
	table.Append([]string{"Inferred timestamps", strconv.Itoa(counts.inferred)})
	table.Append([]string{"Skipped (other senders)", strconv.Itoa(skipped)})
	table.Append([]string{"Storage failures", strconv.Itoa(counts.failed)})
	table.Render()

	log.Info("Batch ingest completed",
		"processed", counts.processed,
		"quarantined", counts.quarantined,
		"inferred_timestamps", counts.inferred,
		"storage_failures", counts.failed,
	)
	return nil
}

type ingestCounts struct {
	processed   int
	quarantined int
	inferred    int
	failed      int
}

// ingestMessages runs every message through the pipeline and lands each one
// in exactly one of the two stores. A transaction that cannot be stored is
// redirected to quarantine with a storage-failure reason rather than
// dropped; the raw body is enough to rebuild it later.
func ingestMessages(
	ctx context.Context,
	log *slog.Logger,
	parser *pipeline.Parser,
	transactionRepo transaction.Repository,
	quarantineRepo quarantine.Repository,
	messages []message.RawMessage,
) ingestCounts {
	var counts ingestCounts
	for i := range messages {
		result := parser.Parse(messages[i])

		if result.Quarantined() {
			counts.quarantined++
			appendQuarantine(ctx, log, quarantineRepo, result.Quarantine)
			continue
		}

		if err := transactionRepo.Upsert(ctx, result.Transaction); err != nil {
			log.Error("Failed to store transaction, redirecting to quarantine",
				"transaction_id", result.Transaction.TransactionID,
				"error", err,
			)
			counts.failed++
			record := quarantine.NewRecord(messages[i].Body, quarantine.ReasonStorageFailure, messages[i].CorrelationID)
			appendQuarantine(ctx, log, quarantineRepo, record)
			continue
		}

		counts.processed++
		if result.Transaction.TimestampInferred {
			counts.inferred++
		}
	}
	return counts
}

// appendQuarantine is best-effort: a failed append is logged and never
// aborts the run.
func appendQuarantine(ctx context.Context, log *slog.Logger, repo quarantine.Repository, record *quarantine.Record) {
	if err := repo.Append(ctx, record); err != nil {
		log.Error("Failed to append quarantine record",
			"reason", string(record.Reason),
			"error", err,
		)
	}
}
