package repository

import (
	"context"
	"errors"
	"fmt"

	"cookboard/pkg/metrics"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

var (
	// ErrTxRetriesExhausted возвращается, когда все попытки повтора
	// транзакции закончились transient-ошибкой
	ErrTxRetriesExhausted = errors.New("transaction retries exhausted")
)

const defaultMaxTxAttempts = 3

type mongoTxRunner struct {
	client      *mongo.Client
	serviceName string
	maxAttempts int
}

// NewMongoTxRunner создает координатор транзакций MongoDB
// Сессия открывается на каждый вызов WithTransaction и закрывается до возврата:
// кеширование сессии между запросами приводит к гонкам на конкурентных оценках
func NewMongoTxRunner(client *mongo.Client, serviceName string) TxRunner {
	return &mongoTxRunner{
		client:      client,
		serviceName: serviceName,
		maxAttempts: defaultMaxTxAttempts,
	}
}

// WithTransaction выполняет fn внутри транзакции с ограниченным числом повторов.
// Повторяем только transient-ошибки (конфликты записи, неизвестный исход коммита),
// бизнес-ошибки из fn пробрасываются наверх с первой попытки
func (t *mongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txOpts := options.Transaction().
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Snapshot())

	var lastErr error
	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		err = mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
			if err := session.StartTransaction(txOpts); err != nil {
				return fmt.Errorf("failed to start transaction: %w", err)
			}

			if err := fn(sc); err != nil {
				// Откатываем и отдаем ошибку как есть: решение о повторе ниже
				if abortErr := session.AbortTransaction(sc); abortErr != nil {
					return fmt.Errorf("failed to abort transaction: %w (original: %v)", abortErr, err)
				}
				return err
			}

			return session.CommitTransaction(sc)
		})
		if err == nil {
			return nil
		}

		lastErr = err
		if !isTransientTxError(err) {
			return err
		}

		metrics.TxRetries.WithLabelValues(t.serviceName).Inc()
	}

	metrics.TxFailures.WithLabelValues(t.serviceName).Inc()
	return fmt.Errorf("%w: %v", ErrTxRetriesExhausted, lastErr)
}

// isTransientTxError проверяет метки ошибок драйвера, по которым
// транзакцию безопасно повторить целиком
func isTransientTxError(err error) bool {
	var serverErr mongo.ServerError
	if !errors.As(err, &serverErr) {
		return false
	}
	return serverErr.HasErrorLabel("TransientTransactionError") ||
		serverErr.HasErrorLabel("UnknownTransactionCommitResult")
}
