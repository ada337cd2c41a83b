package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StorageEntriesCreated counts storage intakes.
	StorageEntriesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storage_entries_created_total",
		Help: "The total number of storage entries created",
	})

	// StorageWithdrawals counts storage withdrawals.
	StorageWithdrawals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storage_withdrawals_total",
		Help: "The total number of storage entries withdrawn",
	})

	// StorageEntriesDeleted counts hard deletions of storage entries.
	StorageEntriesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storage_entries_deleted_total",
		Help: "The total number of storage entries deleted",
	})

	// StorageQueries counts served storage list queries.
	StorageQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storage_queries_total",
		Help: "The total number of storage queries served",
	})
)
