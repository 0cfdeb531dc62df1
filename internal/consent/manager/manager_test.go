package manager

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"cookiegate/internal/consent/models"
)

// fakeStore keeps the record in memory and can be told to fail, so commit
// semantics and failure paths are testable without a real cookie transport.
type fakeStore struct {
	record     *models.Record
	failSave   bool
	failDelete bool
	saves      int
	deletes    int
}

func (f *fakeStore) Save(record *models.Record, _ int) error {
	f.saves++
	if f.failSave {
		return errors.New("cookie rejected")
	}
	copied := *record
	f.record = &copied
	return nil
}

func (f *fakeStore) Load() *models.Record {
	return f.record
}

func (f *fakeStore) Delete() error {
	f.deletes++
	if f.failDelete {
		return errors.New("delete rejected")
	}
	f.record = nil
	return nil
}

type auditCall struct {
	consentID string
	action    models.ActionType
}

type fakeAudit struct {
	calls []auditCall
	fail  bool
}

func (f *fakeAudit) Log(_ context.Context, record *models.Record, action models.ActionType) error {
	f.calls = append(f.calls, auditCall{consentID: record.ID, action: action})
	if f.fail {
		return errors.New("insert failed")
	}
	return nil
}

type ManagerSuite struct {
	suite.Suite
	policy models.Policy
	store  *fakeStore
	audit  *fakeAudit
}

func (s *ManagerSuite) SetupTest() {
	s.policy = models.Policy{Version: "2.0", DurationDays: 365}
	s.store = &fakeStore{}
	s.audit = &fakeAudit{}
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) newManager() *Manager {
	return New(s.policy, s.store,
		WithAudit(s.audit),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *ManagerSuite) TestUnknownStateDeniesEverythingButNecessary() {
	m := s.newManager()

	s.Equal(models.StateUnknown, m.State())
	s.False(m.HasConsent())
	s.False(m.IsValid())
	s.True(m.IsCategoryAllowed(models.CategoryNecessary), "necessary is allowed in every state")
	s.False(m.IsCategoryAllowed(models.CategoryFunctional))
	s.False(m.IsCategoryAllowed(models.CategoryAnalytics))
	s.False(m.IsCategoryAllowed(models.CategoryMarketing))
}

func (s *ManagerSuite) TestAcceptAllGrantsAllFourCategories() {
	m := s.newManager()
	s.Require().NoError(m.AcceptAll(context.Background()))

	s.Equal(models.StateRecordedValid, m.State())
	for category := range models.ValidCategories {
		s.True(m.IsCategoryAllowed(category), "category %s should be allowed", category)
	}
}

func (s *ManagerSuite) TestRejectAllGrantsOnlyNecessary() {
	m := s.newManager()
	s.Require().NoError(m.RejectAll(context.Background()))

	s.True(m.IsCategoryAllowed(models.CategoryNecessary))
	s.False(m.IsCategoryAllowed(models.CategoryFunctional))
	s.False(m.IsCategoryAllowed(models.CategoryAnalytics))
	s.False(m.IsCategoryAllowed(models.CategoryMarketing))
}

func (s *ManagerSuite) TestCustomizePartialGrant() {
	m := s.newManager()
	s.Require().NoError(m.Customize(context.Background(), map[models.Category]bool{
		models.CategoryAnalytics: true,
	}))

	s.True(m.IsCategoryAllowed(models.CategoryAnalytics))
	s.False(m.IsCategoryAllowed(models.CategoryMarketing))
	s.True(m.IsCategoryAllowed(models.CategoryNecessary))
}

func (s *ManagerSuite) TestCustomizeIgnoresUnknownKeysAndForcesNecessary() {
	m := s.newManager()
	s.Require().NoError(m.Customize(context.Background(), map[models.Category]bool{
		"bogus":                  true,
		models.CategoryNecessary: false,
	}))

	record := m.Record()
	s.Require().NotNil(record)
	s.NotContains(record.Categories, models.Category("bogus"))
	s.True(record.Categories[models.CategoryNecessary], "necessary is forced true")
}

func (s *ManagerSuite) TestEverySaveGeneratesFreshID() {
	m := s.newManager()
	s.Require().NoError(m.AcceptAll(context.Background()))
	first := m.ConsentID()

	s.Require().NoError(m.RejectAll(context.Background()))
	second := m.ConsentID()

	s.NotEmpty(first)
	s.NotEmpty(second)
	s.NotEqual(first, second, "records are replaced wholesale, never reused")
}

func (s *ManagerSuite) TestStalePolicyVersionDeniesGrantedCategories() {
	s.store.record = &models.Record{
		ID:            "old-id",
		PolicyVersion: "1.0", // live version is 2.0
		Timestamp:     1700000000,
		Categories:    models.AllGranted(),
	}
	m := s.newManager()

	s.True(m.HasConsent(), "stale record still counts as having consented at some point")
	s.False(m.IsValid())
	s.Equal(models.StateRecordedStale, m.State())
	s.False(m.IsCategoryAllowed(models.CategoryAnalytics), "stale analytics=true must not grant analytics")
	s.True(m.IsCategoryAllowed(models.CategoryNecessary))
}

func (s *ManagerSuite) TestAllowedCategoriesDefaultsMissingKeysFalse() {
	s.store.record = &models.Record{
		ID:            "partial",
		PolicyVersion: "2.0",
		Timestamp:     1700000000,
		Categories: map[models.Category]bool{
			models.CategoryNecessary: true,
			models.CategoryAnalytics: true,
			// functional and marketing intentionally absent
		},
	}
	m := s.newManager()

	allowed := m.AllowedCategories()
	s.True(allowed[models.CategoryNecessary])
	s.True(allowed[models.CategoryAnalytics])
	s.False(allowed[models.CategoryFunctional])
	s.False(allowed[models.CategoryMarketing])
	s.Len(allowed, 4, "map always carries all four categories")
}

func (s *ManagerSuite) TestSaveFailureLeavesStateUnchanged() {
	s.store.failSave = true
	m := s.newManager()

	err := m.AcceptAll(context.Background())
	s.Require().Error(err)
	s.False(m.HasConsent(), "in-memory record commits only after the store write succeeds")
	s.Empty(s.audit.calls, "no audit row for a failed save")
}

func (s *ManagerSuite) TestAuditFailureDoesNotBlockSave() {
	s.audit.fail = true
	m := s.newManager()

	s.Require().NoError(m.AcceptAll(context.Background()))
	s.True(m.HasConsent())
	s.Len(s.audit.calls, 1)
}

func (s *ManagerSuite) TestRevokeReturnsToUnknownAndLogsWithdrawal() {
	m := s.newManager()
	s.Require().NoError(m.AcceptAll(context.Background()))
	savedID := m.ConsentID()

	s.Require().NoError(m.Revoke(context.Background()))
	s.False(m.HasConsent())
	s.Equal(models.StateUnknown, m.State())
	s.Nil(s.store.record, "cookie is gone after revoke")

	s.Require().Len(s.audit.calls, 2)
	revokeCall := s.audit.calls[1]
	s.Equal(models.ActionRevoke, revokeCall.action)
	s.Equal(savedID, revokeCall.consentID, "withdrawal row references the revoked consent id")
}

func (s *ManagerSuite) TestRevokeWithoutConsentDeletesCookieOnly() {
	m := s.newManager()
	s.Require().NoError(m.Revoke(context.Background()))
	s.Equal(1, s.store.deletes)
	s.Empty(s.audit.calls, "nothing to log when no record existed")
}

func (s *ManagerSuite) TestSaveRejectsRevokeAction() {
	m := s.newManager()
	err := m.SaveConsent(context.Background(), models.AllGranted(), models.ActionRevoke)
	s.Error(err, "revoke goes through Revoke, not SaveConsent")
}
