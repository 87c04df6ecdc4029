package service

import (
	"context"
	"io"
	"time"

	"github.com/MKhiriev/go-finance-keeper/models"
)

// AuthService manages the session of the client: it authenticates against
// the server and keeps the token and the user profile in local storage.
type AuthService interface {
	// Register creates an account and stores the returned session.
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)

	// Login authenticates with email and password and stores the session.
	Login(ctx context.Context, creds models.Credentials) (models.User, error)

	// CurrentUser fetches the profile of the session owner. A 401 answer
	// clears the stored session. When the server is unreachable the cached
	// profile is returned together with the network error.
	CurrentUser(ctx context.Context) (models.User, error)

	// RestoreSession loads a stored, unexpired session and arms the adapter
	// with its token. It returns [ErrAuthenticationMissing] otherwise.
	RestoreSession(ctx context.Context) (models.User, error)

	// Logout removes the stored session.
	Logout(ctx context.Context) error

	// IsAuthenticated reports whether a usable token is stored.
	IsAuthenticated(ctx context.Context) bool

	TokenSource
}

// TokenSource yields the stored bearer token, or [ErrAuthenticationMissing]
// when there is none or it has expired.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// OnlineChecker reports the last known reachability of the server.
type OnlineChecker interface {
	IsOnline() bool
}

// SyncState is the phase of the sync trigger.
type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncSyncing SyncState = "syncing"
	SyncSuccess SyncState = "success"
	SyncError   SyncState = "error"
)

// SyncEvent is published on every state transition of [SyncService].
type SyncEvent struct {
	State  SyncState
	Result models.SyncResult
	Err    error
	At     time.Time
}

// SyncService pushes the pending-change queue to the server and refreshes
// the local collections.
type SyncService interface {
	// Sync performs one synchronization. It fails fast with
	// [ErrConnectivityUnavailable], [ErrAuthenticationMissing] or
	// [ErrSyncInProgress] without touching the queue.
	Sync(ctx context.Context) (models.SyncResult, error)

	// Status fetches the server-side synchronization summary.
	Status(ctx context.Context) (models.SyncStatusSummary, error)

	// State returns the current state.
	State() SyncState

	// LastResult returns the outcome of the latest finished sync.
	LastResult() (models.SyncResult, error)

	// LastSyncAt returns the time of the latest successful sync, zero if
	// none happened yet.
	LastSyncAt(ctx context.Context) (time.Time, error)

	// Pending returns the number of queued changes.
	Pending(ctx context.Context) (int, error)

	// Subscribe delivers state transitions until cancel is called.
	Subscribe() (events <-chan SyncEvent, cancel func())
}

// ConnectivityObserver tracks whether the server is reachable.
type ConnectivityObserver interface {
	OnlineChecker

	// SetOnline forces the status, e.g. from a failed request.
	SetOnline(online bool)

	// Probe checks the server once and updates the status.
	Probe(ctx context.Context) bool

	// OnOnline registers fn to run after every offline to online transition.
	OnOnline(fn func(ctx context.Context))

	// Subscribe delivers status changes until cancel is called.
	Subscribe() (status <-chan bool, cancel func())

	// Run probes the server periodically until ctx is done.
	Run(ctx context.Context) error
}

// RecordService is the CRUD entry point for one collection.
type RecordService[T models.Record] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, rec T) (T, error)
	Delete(ctx context.Context, id string) error
}

// ReportService builds the chart-ready report series.
type ReportService interface {
	Build(ctx context.Context) (models.Report, error)
}

// DashboardService summarizes the local collections.
type DashboardService interface {
	Summary(ctx context.Context) (models.DashboardSummary, error)
}

// BackupService exports and imports the local collections.
type BackupService interface {
	Export(ctx context.Context, w io.Writer) (models.Backup, error)
	Import(ctx context.Context, r io.Reader) (models.Backup, error)
	FileName(at time.Time) string
}
