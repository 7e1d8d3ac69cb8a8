package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"levelup/internal/domain/identity"
	"levelup/internal/platform/config"
)

// Seed ensures the bootstrap admin account and the default grade rules and
// level thresholds so a fresh instance evaluates eligibility sensibly.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}
	if err := ensureDefaultRules(ctx, pool, cfg.MinDataYear, cfg.MaxDataYear); err != nil {
		return err
	}
	return ensureDefaultThresholds(ctx, pool, cfg.MaxDataYear)
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := identity.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO users (email, password_hash, role, department, active)
		VALUES ($1, $2, $3, '', true)`,
		email, hash, identity.RoleAdmin)
	return err
}

func ensureDefaultRules(ctx context.Context, pool *pgxpool.Pool, yearFrom, yearTo int) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM grade_score_rules").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		grade  string
		points float64
	}{
		{"S", 6},
		{"A", 4},
		{"B", 3},
		{"C", 2},
		{"D", 1},
	}
	for _, rule := range defaults {
		if _, err := pool.Exec(ctx, `
			INSERT INTO grade_score_rules (grade, year_from, year_to, points)
			VALUES ($1, $2, $3, $4)`,
			rule.grade, yearFrom, yearTo, rule.points); err != nil {
			return err
		}
	}
	return nil
}

func ensureDefaultThresholds(ctx context.Context, pool *pgxpool.Pool, year int) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM level_thresholds").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		level           int
		requiredPoints  float64
		requiredCredits float64
		minTenure       int
	}{
		{1, 6, 4, 1},
		{2, 10, 8, 2},
		{3, 14, 12, 3},
		{4, 20, 16, 5},
	}
	for _, th := range defaults {
		if _, err := pool.Exec(ctx, `
			INSERT INTO level_thresholds (level, year, required_points, required_credits, min_tenure_years)
			VALUES ($1, $2, $3, $4, $5)`,
			th.level, year, th.requiredPoints, th.requiredCredits, th.minTenure); err != nil {
			return err
		}
	}
	return nil
}
