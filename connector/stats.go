package connector

import "database/sql"

// ConnectionStats is a snapshot of a connection's pool.
type ConnectionStats struct {
	MaxOpen         int
	OpenConnections int
	InUse           int
	Idle            int
	WaitCount       int64
}

// StatsFromDB converts database/sql pool statistics.
func StatsFromDB(s sql.DBStats) ConnectionStats {
	return ConnectionStats{
		MaxOpen:         s.MaxOpenConnections,
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
		WaitCount:       s.WaitCount,
	}
}
