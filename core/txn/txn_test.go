package txn

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type row struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"`
	Name string
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&row{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func count(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&row{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestInTx_Commit(t *testing.T) {
	db := testDB(t)
	r := NewRunner(db)

	err := r.InTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&row{Name: "a"}).Error
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if got := count(t, db); got != 1 {
		t.Errorf("rows = %d, want 1", got)
	}
}

func TestInTx_RollbackOnError(t *testing.T) {
	db := testDB(t)
	r := NewRunner(db)

	wantErr := errors.New("boom")
	err := r.InTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&row{Name: "a"}).Error; err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want boom", err)
	}
	if got := count(t, db); got != 0 {
		t.Errorf("rows = %d, want 0 after rollback", got)
	}
}

func TestInTx_RollbackOnPanic(t *testing.T) {
	db := testDB(t)
	r := NewRunner(db)

	func() {
		defer func() { recover() }()
		r.InTx(context.Background(), func(tx *gorm.DB) error {
			tx.Create(&row{Name: "a"})
			panic("boom")
		})
	}()

	if got := count(t, db); got != 0 {
		t.Errorf("rows = %d, want 0 after panic rollback", got)
	}
}
