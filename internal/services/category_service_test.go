package services

import (
	"testing"

	"intabyu/internal/models"
	"intabyu/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, testutil.SetupAudioStore(t))

		cat, err := svc.CreateCategory("  Behavioral ", "u1")
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected generated category ID")
		}
		if cat.Name != "Behavioral" {
			t.Errorf("expected trimmed name Behavioral, got %q", cat.Name)
		}
		if cat.UserID != "u1" {
			t.Errorf("expected user u1, got %s", cat.UserID)
		}
		if cat.Questions == nil || len(cat.Questions) != 0 {
			t.Errorf("expected empty non-nil questions, got %v", cat.Questions)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, testutil.SetupAudioStore(t))

		_, err := svc.CreateCategory("   ", "u1")
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("missing_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, testutil.SetupAudioStore(t))

		_, err := svc.CreateCategory("Behavioral", "")
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestListCategories(t *testing.T) {
	t.Run("nested_and_ordered", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, testutil.SetupAudioStore(t))

		older := testutil.CreateTestCategory(t, db, "u1")
		newer := testutil.CreateTestCategory(t, db, "u1")
		q1 := testutil.CreateTestQuestion(t, db, older.ID)
		q2 := testutil.CreateTestQuestion(t, db, older.ID)
		testutil.CreateTestCategory(t, db, "someone-else")

		cats, err := svc.ListCategories("u1")
		testutil.AssertNoError(t, err)

		if len(cats) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(cats))
		}
		if cats[0].ID != newer.ID || cats[1].ID != older.ID {
			t.Errorf("expected newest first, got %s then %s", cats[0].ID, cats[1].ID)
		}
		if len(cats[0].Questions) != 0 {
			t.Errorf("expected no questions on newer category, got %d", len(cats[0].Questions))
		}
		if cats[0].Questions == nil {
			t.Error("expected empty non-nil questions slice")
		}
		qs := cats[1].Questions
		if len(qs) != 2 || qs[0].ID != q1.ID || qs[1].ID != q2.ID {
			t.Errorf("expected questions in creation order, got %+v", qs)
		}
		for _, q := range qs {
			if q.CategoryID != older.ID {
				t.Errorf("question %s nested under wrong category %s", q.ID, q.CategoryID)
			}
		}
	})

	t.Run("two_queries_regardless_of_size", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, testutil.SetupAudioStore(t))

		for i := 0; i < 5; i++ {
			cat := testutil.CreateTestCategory(t, db, "u1")
			for j := 0; j < 3; j++ {
				testutil.CreateTestQuestion(t, db, cat.ID)
			}
		}

		counter := testutil.CountQueries(t, db)
		cats, err := svc.ListCategories("u1")
		testutil.AssertNoError(t, err)

		if len(cats) != 5 {
			t.Fatalf("expected 5 categories, got %d", len(cats))
		}
		if n := counter.Count(); n > 2 {
			t.Errorf("expected at most 2 queries, got %d", n)
		}
	})

	t.Run("no_categories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, testutil.SetupAudioStore(t))

		cats, err := svc.ListCategories("nobody")
		testutil.AssertNoError(t, err)
		if cats == nil || len(cats) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", cats)
		}
	})

	t.Run("missing_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, testutil.SetupAudioStore(t))

		_, err := svc.ListCategories("")
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestGetCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db, testutil.SetupAudioStore(t))

	cat := testutil.CreateTestCategory(t, db, "u1")

	got, err := svc.GetCategory(cat.ID)
	testutil.AssertNoError(t, err)
	if got.Name != cat.Name {
		t.Errorf("expected name %s, got %s", cat.Name, got.Name)
	}

	_, err = svc.GetCategory("018f0000-0000-7000-8000-000000000000")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

func TestUpdateCategory(t *testing.T) {
	t.Run("renames", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, testutil.SetupAudioStore(t))

		cat := testutil.CreateTestCategory(t, db, "u1")
		updated, err := svc.UpdateCategory(cat.ID, "System Design")
		testutil.AssertNoError(t, err)
		if updated.Name != "System Design" {
			t.Errorf("expected System Design, got %s", updated.Name)
		}

		var stored models.Category
		db.First(&stored, "id = ?", cat.ID)
		if stored.Name != "System Design" {
			t.Errorf("expected persisted rename, got %s", stored.Name)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, testutil.SetupAudioStore(t))

		_, err := svc.UpdateCategory("018f0000-0000-7000-8000-000000000000", "x")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("cascades_rows_and_files", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		store := testutil.SetupAudioStore(t)
		svc := NewCategoryService(db, store)

		cat := testutil.CreateTestCategory(t, db, "u1")
		q := testutil.CreateTestQuestion(t, db, cat.ID)
		rec := testutil.CreateTestRecording(t, db, store, q.ID, []byte("audio"), nil)
		keep := testutil.CreateTestCategory(t, db, "u1")

		deleted, err := svc.DeleteCategory(cat.ID)
		testutil.AssertNoError(t, err)
		if !deleted {
			t.Error("expected deleted=true")
		}

		var n int64
		db.Model(&models.Question{}).Where("category_id = ?", cat.ID).Count(&n)
		if n != 0 {
			t.Errorf("expected questions removed, %d remain", n)
		}
		db.Model(&models.Recording{}).Where("id = ?", rec.ID).Count(&n)
		if n != 0 {
			t.Error("expected recording removed")
		}
		if store.Exists(rec.AudioURL) {
			t.Error("expected audio file removed")
		}
		db.Model(&models.Category{}).Where("id = ?", keep.ID).Count(&n)
		if n != 1 {
			t.Error("expected unrelated category to survive")
		}
	})

	t.Run("unknown_id_is_idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, testutil.SetupAudioStore(t))

		deleted, err := svc.DeleteCategory("018f0000-0000-7000-8000-000000000000")
		testutil.AssertNoError(t, err)
		if deleted {
			t.Error("expected deleted=false for unknown id")
		}
	})
}
