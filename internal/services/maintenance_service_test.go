package services

import (
	"context"
	"testing"

	"intabyu/internal/models"
	"intabyu/internal/testutil"
)

func TestWipe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := testutil.SetupAudioStore(t)
	svc := NewMaintenanceService(db, store)

	cat := testutil.CreateTestCategory(t, db, "u1")
	q := testutil.CreateTestQuestion(t, db, cat.ID)
	rec := testutil.CreateTestRecording(t, db, store, q.ID, []byte("1"), nil)
	testutil.CreateTestCategory(t, db, "u2")

	res, err := svc.Wipe(context.Background())
	testutil.AssertNoError(t, err)

	if res.Recordings != 1 || res.Questions != 1 || res.Categories != 2 {
		t.Errorf("unexpected counts %+v", res)
	}
	for _, m := range []interface{}{&models.Recording{}, &models.Question{}, &models.Category{}} {
		var n int64
		db.Model(m).Count(&n)
		if n != 0 {
			t.Errorf("expected %T table empty, got %d rows", m, n)
		}
	}
	if store.Exists(rec.AudioURL) {
		t.Error("expected audio store emptied")
	}
	testutil.AssertAudioFiles(t, store, 0)
}

func TestAuditLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)

	svc.Log("DELETE_CATEGORY", "category", "abc", "127.0.0.1", map[string]interface{}{"deleted": true})

	var entry models.AuditLog
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("expected audit entry: %v", err)
	}
	if entry.Action != "DELETE_CATEGORY" || entry.ResourceID != "abc" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if entry.Changes != `{"deleted":true}` {
		t.Errorf("unexpected changes %s", entry.Changes)
	}
}
