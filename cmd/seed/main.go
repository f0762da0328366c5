package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salonware/booking-engine/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedSettings(context.Background(), pool); err != nil {
		log.Fatalf("seed settings: %v", err)
	}
	staffIDs, err := seedStaff(context.Background(), pool, 12)
	if err != nil {
		log.Fatalf("seed staff: %v", err)
	}
	if err := seedServices(context.Background(), pool, 8); err != nil {
		log.Fatalf("seed services: %v", err)
	}
	if err := seedAvailability(context.Background(), pool, staffIDs, 14); err != nil {
		log.Fatalf("seed availability: %v", err)
	}

	log.Println("seed complete")
}

func seedSettings(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO system_settings (key, value)
		VALUES ('BUSINESS_OPEN', '09:00'), ('BUSINESS_CLOSE', '17:00')
		ON CONFLICT (key) DO NOTHING
	`)
	if err != nil {
		return err
	}
	log.Println("settings seeded")
	return nil
}

func seedStaff(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d staff", count)

	roles := []string{
		"Stylist",
		"Senior Stylist",
		"Colorist",
		"Barber",
		"Nail Technician",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.Name()
		email := gofakeit.Email()
		role := roles[gofakeit.Number(0, len(roles)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO staff (id, name, email, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, id, name, email, role)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("staff seeded")
	return ids, nil
}

func seedServices(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d services", count)

	names := []string{
		"Haircut",
		"Beard Trim",
		"Color & Highlights",
		"Blowout",
		"Deep Conditioning",
		"Manicure",
		"Pedicure",
		"Scalp Treatment",
	}
	durations := []int{30, 45, 60, 90}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id := uuid.New()
		name := names[i%len(names)]
		duration := durations[gofakeit.Number(0, len(durations)-1)]
		priceCents := int64(gofakeit.Number(2000, 18000))

		_, err := tx.Exec(ctx, `
			INSERT INTO services (id, name, duration_minutes, price_cents, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, now(), now())
		`, id, name, duration, priceCents)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("services seeded")
	return nil
}

// seedAvailability gives roughly half the staff explicit windows over the
// next N days; the rest rely on the default all-day policy.
func seedAvailability(ctx context.Context, pool *pgxpool.Pool, staffIDs []uuid.UUID, days int) error {
	log.Printf("seeding availability for %d days", days)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	today := time.Now().Truncate(24 * time.Hour)

	for i, staffID := range staffIDs {
		if i%2 == 0 {
			continue
		}
		for d := 0; d < days; d++ {
			date := today.AddDate(0, 0, d)

			// Morning or afternoon shift, on the half hour.
			startMin := 9 * 60
			endMin := 13 * 60
			if gofakeit.Bool() {
				startMin = 12 * 60
				endMin = 17 * 60
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO availability_windows (id, staff_id, date, start_min, end_min)
				VALUES ($1, $2, $3, $4, $5)
			`, uuid.New(), staffID, date, startMin, endMin)
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("availability seeded")
	return nil
}
