package services

import (
	"context"
	"fmt"
	"io"

	"github.com/taxiload/taxiload/internal/db"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// storeOpener connects to the destination and returns the store plus a
// cleanup func that closes everything it opened.
type storeOpener func(ctx context.Context, conn *taxiload.ConnectionConfig) (taxiload.TableStore, func(), error)

// connectorStoreOpener opens a TableStore through the connector for conn.AuthMethod.
func connectorStoreOpener(factory taxiload.ConnectorFactory, logger taxiload.Logger) storeOpener {
	return func(ctx context.Context, conn *taxiload.ConnectionConfig) (taxiload.TableStore, func(), error) {
		connector, err := factory(conn, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create connector: %w", err)
		}

		closeConnector := func() {
			if closer, ok := connector.(io.Closer); ok {
				closer.Close() //nolint:errcheck
			}
		}

		pool, err := connector.Connect(ctx)
		if err != nil {
			closeConnector()
			return nil, nil, err
		}

		cleanup := func() {
			pool.Close()
			closeConnector()
		}
		return db.NewTableStore(pool, logger), cleanup, nil
	}
}
