// Package retry retries opening database connections with exponential backoff.
//
// Only connection establishment is retried. Writes are never retried: a
// failed slice aborts the load.
//
//	executor := retry.NewExecutor(
//	    retry.NewPostgreSQLErrorClassifier(),
//	    retry.NewExponentialBackoff(3),
//	)
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
package retry
