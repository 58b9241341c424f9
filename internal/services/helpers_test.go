package services

import (
	"sync"
	"testing"

	"gorm.io/gorm"

	"wealth/internal/identity"
	"wealth/internal/models"
	"wealth/internal/serialize"
	"wealth/internal/testutil"
)

// recordingInvalidator remembers every revalidated path.
type recordingInvalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingInvalidator) Revalidate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recordingInvalidator) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

type fixture struct {
	db          *gorm.DB
	accounts    AccountServicer
	txs         TransactionServicer
	invalidator *recordingInvalidator
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	resolver := identity.NewResolver(db)
	inv := &recordingInvalidator{}
	ser := serialize.New(serialize.PolicyDefined)
	return &fixture{
		db:          db,
		accounts:    NewAccountService(db, resolver, inv, ser),
		txs:         NewTransactionService(db, resolver, inv, ser),
		invalidator: inv,
	}
}

// newOwner creates a user and returns the identity that resolves to it.
func newOwner(t *testing.T, db *gorm.DB) (*models.User, *identity.Identity) {
	t.Helper()
	user := testutil.CreateTestUser(t, db)
	return user, &identity.Identity{ExternalID: user.ExternalID, Email: user.Email}
}

func boolPtr(b bool) *bool { return &b }
