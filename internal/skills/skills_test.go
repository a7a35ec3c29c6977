package skills

import (
	"testing"

	"github.com/qops/missionctl/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Skill{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func doc(slug, name string) SkillDoc {
	return SkillDoc{
		Name:        name,
		Slug:        slug,
		Description: "does " + name,
		Type:        models.SkillTool,
		RepoPath:    "skills/" + slug,
	}
}

func TestCreate_RequiresIdentity(t *testing.T) {
	db := setupTestDB(t)

	row, err := Create(db, doc("pdf-export", "PDF export"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if row.LastSynced == 0 {
		t.Error("lastSynced not stamped")
	}

	if _, err := Create(db, SkillDoc{Name: "x", Type: models.SkillTool}); err == nil {
		t.Error("expected error for missing slug")
	}
	if _, err := Create(db, SkillDoc{Name: "x", Slug: "x", RepoPath: "p", Type: "magic"}); err == nil {
		t.Error("expected error for invalid type")
	}
}

func TestSync_UpsertsBySlug(t *testing.T) {
	db := setupTestDB(t)
	Create(db, doc("pdf-export", "PDF export"))

	changed := doc("pdf-export", "PDF export v2")
	changed.HasReferences = true
	result, err := Sync(db, []SkillDoc{changed, doc("calendar-hold", "Calendar hold")})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Created != 1 || result.Updated != 1 {
		t.Errorf("result = %+v", result)
	}

	got, err := GetBySlug(db, "pdf-export")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "PDF export v2" || !got.HasReferences {
		t.Errorf("synced = %+v", got)
	}

	all, _ := List(db, "")
	if len(all) != 2 {
		t.Errorf("skills = %d, want 2", len(all))
	}
}

func TestListByTypeAndSearch(t *testing.T) {
	db := setupTestDB(t)
	sop := doc("weekly-report", "Weekly report")
	sop.Type = models.SkillSOP
	Create(db, sop)
	Create(db, doc("pdf-export", "PDF export"))

	sops, err := List(db, models.SkillSOP)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sops) != 1 || sops[0].Slug != "weekly-report" {
		t.Errorf("sops = %v", sops)
	}

	found, err := Search(db, "pdf", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].Slug != "pdf-export" {
		t.Errorf("search = %v", found)
	}
}

func TestSearch_LikeMetacharactersLiteral(t *testing.T) {
	db := setupTestDB(t)
	Create(db, doc("discount-calc", "Apply 10% discount"))
	Create(db, doc("pdf-export", "PDF export"))

	found, err := Search(db, "%", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].Slug != "discount-calc" {
		t.Errorf("%% query matched %v, want only the literal one", found)
	}
}

func TestRemove(t *testing.T) {
	db := setupTestDB(t)
	Create(db, doc("pdf-export", "PDF export"))

	if err := Remove(db, "pdf-export"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := GetBySlug(db, "pdf-export"); err == nil {
		t.Error("expected not-found after remove")
	}
	if err := Remove(db, "pdf-export"); err == nil {
		t.Error("expected error removing twice")
	}
}
