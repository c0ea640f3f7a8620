package database

import (
	"context"
	"database/sql"
)

// ddl contains the schema statements executed at startup.  Every
// statement is idempotent (CREATE TABLE IF NOT EXISTS) so Migrate can
// run on every boot without clobbering existing data.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role ENUM('ADMIN','EMPLOYEE') NOT NULL DEFAULT 'EMPLOYEE',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		last_attendance DATE NULL,
		attendance_streak INT UNSIGNED NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		slug VARCHAR(64) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS floors (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		location_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		position INT UNSIGNED NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_floors_location FOREIGN KEY (location_id) REFERENCES locations(id)
	)`,
	`CREATE TABLE IF NOT EXISTS seats (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		floor_id BIGINT UNSIGNED NOT NULL,
		seat_number INT UNSIGNED NOT NULL,
		status ENUM('AVAILABLE','OCCUPIED','MAINTENANCE') NOT NULL DEFAULT 'AVAILABLE',
		occupant_id BIGINT UNSIGNED NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_seats_floor_number (floor_id, seat_number),
		CONSTRAINT fk_seats_floor FOREIGN KEY (floor_id) REFERENCES floors(id)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		seat_id BIGINT UNSIGNED NOT NULL,
		from_date DATE NOT NULL,
		to_date DATE NOT NULL,
		status ENUM('ACTIVE','CANCELLED') NOT NULL DEFAULT 'ACTIVE',
		cancel_reason VARCHAR(64) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_bookings_user_status (user_id, status),
		INDEX idx_bookings_seat_status (seat_id, status),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_bookings_seat FOREIGN KEY (seat_id) REFERENCES seats(id)
	)`,
	`CREATE TABLE IF NOT EXISTS swap_requests (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		reference CHAR(36) NOT NULL UNIQUE,
		requester_id BIGINT UNSIGNED NOT NULL,
		requester_name VARCHAR(255) NOT NULL,
		current_seat_id BIGINT UNSIGNED NOT NULL,
		requested_seat_id BIGINT UNSIGNED NOT NULL,
		status ENUM('PENDING','APPROVED','REJECTED') NOT NULL DEFAULT 'PENDING',
		resolved_by BIGINT UNSIGNED NULL,
		resolved_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_swaps_requester FOREIGN KEY (requester_id) REFERENCES users(id),
		CONSTRAINT fk_swaps_current_seat FOREIGN KEY (current_seat_id) REFERENCES seats(id),
		CONSTRAINT fk_swaps_requested_seat FOREIGN KEY (requested_seat_id) REFERENCES seats(id)
	)`,
}

// Migrate creates any missing tables.  It is called once at startup
// before the seeder runs.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
