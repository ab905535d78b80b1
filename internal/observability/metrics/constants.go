// Package metrics provides constants used across metric definitions.
package metrics

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusHit     = "hit"
	StatusMiss    = "miss"
)

// Store operation label values.
const (
	OpStoreGet    = "get"
	OpStoreSet    = "set"
	OpStoreRemove = "remove"
)

// Dashboard mutation label values.
const (
	OpAddCity     = "add_city"
	OpRemoveCity  = "remove_city"
	OpRestore     = "restore"
	OpBootstrap   = "bootstrap"
	OpLocate      = "locate"
	OpPublish     = "publish"
	OpPersistList = "persist"
)

// Histogram bucket constants.
const (
	// BucketStart1ms is the starting bucket for 1ms histograms (1ms to ~1s range).
	BucketStart1ms = 0.001
	// BucketStart10ms is the starting bucket for 10ms histograms (10ms to ~40s range).
	BucketStart10ms = 0.01
	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2
	// BucketCount10 defines 10 exponential buckets.
	BucketCount10 = 10
	// BucketCount12 defines 12 exponential buckets.
	BucketCount12 = 12
)
