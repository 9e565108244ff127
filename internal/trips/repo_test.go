//go:build db
// +build db

package trips

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wayplan/backend/internal/memberships"
	"github.com/wayplan/backend/pkg/db/models"
	"github.com/wayplan/backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("WAYPLAN_DB_DSN")
	if dsn == "" {
		t.Skip("WAYPLAN_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func TestRepositoryTripLifecycle(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	memberRepo := memberships.NewRepository(tx)
	ctx := context.Background()

	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("wp_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		FirstName:    "Repo",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	joinCode := "Zx" + uuid.NewString()[:8]
	trip, err := repo.Create(ctx, &models.Trip{
		ID:        uuid.New(),
		JoinCode:  joinCode,
		Country:   "Japan",
		Latitude:  35.6764,
		Longitude: 139.6500,
		Timezone:  "32400000",
	})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	if _, err := memberRepo.Create(ctx, trip.ID, user.ID, enums.TripRoleCreator); err != nil {
		t.Fatalf("create membership: %v", err)
	}

	found, err := repo.FindByJoinCode(ctx, joinCode)
	if err != nil {
		t.Fatalf("find by join code: %v", err)
	}
	if found.ID != trip.ID {
		t.Fatalf("expected trip %s, got %s", trip.ID, found.ID)
	}

	taken, err := repo.JoinCodeExists(ctx, joinCode)
	if err != nil {
		t.Fatalf("join code exists: %v", err)
	}
	if !taken {
		t.Fatal("expected join code to be taken after create")
	}

	mine, err := repo.ListForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != trip.ID {
		t.Fatalf("expected the created trip in the user's list, got %d rows", len(mine))
	}

	activity := &models.Activity{
		ID:          uuid.New(),
		TripID:      trip.ID,
		SuggesterID: user.ID,
		Name:        "Senso-ji",
		Country:     "Japan",
		Timezone:    "32400000",
		StartTime:   time.Now(),
		EndTime:     time.Now().Add(2 * time.Hour),
		Latitude:    35.7148,
		Longitude:   139.7967,
	}
	if err := tx.Create(activity).Error; err != nil {
		t.Fatalf("create activity: %v", err)
	}
	if err := tx.Create(&models.ActivityLink{ID: uuid.New(), ActivityID: activity.ID, TripID: trip.ID}).Error; err != nil {
		t.Fatalf("create activity link: %v", err)
	}
	if err := tx.Create(&models.UserActivity{ID: uuid.New(), UserID: user.ID, ActivityID: activity.ID}).Error; err != nil {
		t.Fatalf("create user activity: %v", err)
	}

	// cascade order mirrors the service: associations, memberships,
	// activities, then the trip row
	if err := repo.DeleteActivityAssociations(ctx, trip.ID); err != nil {
		t.Fatalf("delete associations: %v", err)
	}
	if err := memberRepo.DeleteForTrip(ctx, trip.ID); err != nil {
		t.Fatalf("delete memberships: %v", err)
	}
	if err := repo.DeleteActivities(ctx, trip.ID); err != nil {
		t.Fatalf("delete activities: %v", err)
	}
	if err := repo.Delete(ctx, trip.ID); err != nil {
		t.Fatalf("delete trip: %v", err)
	}

	for name, count := range map[string]int64{
		"trips":            countRows(t, tx, &models.Trip{}, "id = ?", trip.ID),
		"trip_memberships": countRows(t, tx, &models.TripMembership{}, "trip_id = ?", trip.ID),
		"activities":       countRows(t, tx, &models.Activity{}, "trip_id = ?", trip.ID),
		"activity_links":   countRows(t, tx, &models.ActivityLink{}, "trip_id = ?", trip.ID),
		"user_activities":  countRows(t, tx, &models.UserActivity{}, "activity_id = ?", activity.ID),
	} {
		if count != 0 {
			t.Fatalf("expected no %s rows after delete, found %d", name, count)
		}
	}

	stillTaken, err := repo.JoinCodeExists(ctx, joinCode)
	if err != nil {
		t.Fatalf("join code exists after delete: %v", err)
	}
	if stillTaken {
		t.Fatal("expected join code to be free after trip deletion")
	}
}

func countRows(t *testing.T, tx *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var count int64
	if err := tx.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}
