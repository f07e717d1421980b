package datastore

// Repositories groups every repository over one DBTX so a caller can use
// them together inside a transaction.
type Repositories struct {
	Services      *ServiceRepository
	Snapshots     *SnapshotRepository
	Changes       *ChangeRepository
	Users         *UserRepository
	Subscriptions *SubscriptionRepository
	Alerts        *AlertRepository
	ScanRuns      *ScanRunRepository
}

// NewRepositories binds all repositories to db.
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Services:      NewServiceRepository(db),
		Snapshots:     NewSnapshotRepository(db),
		Changes:       NewChangeRepository(db),
		Users:         NewUserRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
		Alerts:        NewAlertRepository(db),
		ScanRuns:      NewScanRunRepository(db),
	}
}
