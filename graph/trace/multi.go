package trace

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/wrenlabs/agentgraph/graph/event"
)

// AuditLogReader reads raw audit-log bytes for one named source (e.g. a
// run id), letting ReadAuditLogs stay storage-agnostic.
type AuditLogReader interface {
	ReadAuditLog(ctx context.Context, name string) ([]byte, error)
}

// ReadAuditLogs reads and parses every named audit log concurrently via
// reader, returning one record slice per name in the same order as
// names. Used when reconciling several runs' audit trails at once (e.g.
// an operator tool auditing a batch of sessions).
func ReadAuditLogs(ctx context.Context, reader AuditLogReader, names []string) ([][]event.Record, error) {
	out := make([][]event.Record, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			data, err := reader.ReadAuditLog(gctx, name)
			if err != nil {
				return err
			}
			records, err := UnmarshalAuditLog(data)
			if err != nil {
				return err
			}
			out[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
