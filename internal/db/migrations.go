package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS feedback_categories (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		priority_level INTEGER NOT NULL DEFAULT 1 CHECK (priority_level BETWEEN 1 AND 4),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS feedbacks (
		id BIGSERIAL PRIMARY KEY,
		tracking_code CHAR(12) NOT NULL,
		name VARCHAR(200) NOT NULL DEFAULT 'Ẩn danh',
		is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
		phone VARCHAR(15) NOT NULL,
		email VARCHAR(254),
		category_id BIGINT REFERENCES feedback_categories(id) ON DELETE SET NULL,
		priority INTEGER NOT NULL DEFAULT 2 CHECK (priority BETWEEN 1 AND 4),
		title VARCHAR(200) NOT NULL,
		content TEXT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		address VARCHAR(500) NOT NULL DEFAULT '',
		latitude DECIMAL(9,6),
		longitude DECIMAL(9,6),
		admin_note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		resolved_at TIMESTAMPTZ
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_feedbacks_tracking_code ON feedbacks (tracking_code);`,
	`CREATE INDEX IF NOT EXISTS idx_feedbacks_created_at ON feedbacks (created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_feedbacks_status ON feedbacks (status);`,
	`CREATE INDEX IF NOT EXISTS idx_feedbacks_category_id ON feedbacks (category_id);`,
	`CREATE TABLE IF NOT EXISTS feedback_images (
		id BIGSERIAL PRIMARY KEY,
		feedback_id BIGINT NOT NULL REFERENCES feedbacks(id) ON DELETE CASCADE,
		file_path TEXT NOT NULL,
		caption VARCHAR(200) NOT NULL DEFAULT '',
		uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_images_feedback_id ON feedback_images (feedback_id);`,
	`CREATE TABLE IF NOT EXISTS departments (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		department_type VARCHAR(50) NOT NULL DEFAULT 'hanh_chinh',
		description TEXT NOT NULL DEFAULT '',
		address VARCHAR(300) NOT NULL,
		phone VARCHAR(20) NOT NULL,
		hotline VARCHAR(20) NOT NULL DEFAULT '',
		email VARCHAR(254) NOT NULL DEFAULT '',
		fax VARCHAR(20) NOT NULL DEFAULT '',
		working_hours VARCHAR(200) NOT NULL DEFAULT 'Thứ 2 - Thứ 6: 7h30 - 11h30, 13h30 - 17h30',
		website VARCHAR(200) NOT NULL DEFAULT '',
		map_embed TEXT NOT NULL DEFAULT '',
		display_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_departments_type ON departments (department_type);`,
	`CREATE INDEX IF NOT EXISTS idx_departments_display_order ON departments (display_order, name);`,
	`CREATE TABLE IF NOT EXISTS contact_persons (
		id BIGSERIAL PRIMARY KEY,
		department_id BIGINT NOT NULL REFERENCES departments(id) ON DELETE CASCADE,
		full_name VARCHAR(100) NOT NULL,
		position VARCHAR(50) NOT NULL,
		position_custom VARCHAR(100) NOT NULL DEFAULT '',
		phone VARCHAR(20) NOT NULL,
		mobile VARCHAR(20) NOT NULL DEFAULT '',
		email VARCHAR(254) NOT NULL DEFAULT '',
		display_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contact_persons_department_id ON contact_persons (department_id);`,
	`CREATE TABLE IF NOT EXISTS emergency_contacts (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		emergency_type VARCHAR(50) NOT NULL,
		phone VARCHAR(20) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		display_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS public_services (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		public_sector VARCHAR(100) NOT NULL,
		department VARCHAR(150) NOT NULL,
		jurisdiction VARCHAR(50) NOT NULL DEFAULT 'provincial',
		service_level INTEGER NOT NULL DEFAULT 4 CHECK (service_level BETWEEN 1 AND 4),
		description TEXT NOT NULL DEFAULT '',
		legal_basis TEXT NOT NULL DEFAULT '',
		procedure_steps TEXT NOT NULL DEFAULT '',
		processing_time VARCHAR(50) NOT NULL DEFAULT '',
		fee VARCHAR(100) NOT NULL DEFAULT '',
		required_documents TEXT NOT NULL DEFAULT '',
		contact_info VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_public_services_created_at ON public_services (created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_public_services_jurisdiction ON public_services (jurisdiction);`,
	`CREATE INDEX IF NOT EXISTS idx_public_services_service_level ON public_services (service_level);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_feedbacks_updated_at') THEN
			CREATE TRIGGER trg_feedbacks_updated_at
				BEFORE UPDATE ON feedbacks
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_departments_updated_at') THEN
			CREATE TRIGGER trg_departments_updated_at
				BEFORE UPDATE ON departments
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_contact_persons_updated_at') THEN
			CREATE TRIGGER trg_contact_persons_updated_at
				BEFORE UPDATE ON contact_persons
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_emergency_contacts_updated_at') THEN
			CREATE TRIGGER trg_emergency_contacts_updated_at
				BEFORE UPDATE ON emergency_contacts
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_public_services_updated_at') THEN
			CREATE TRIGGER trg_public_services_updated_at
				BEFORE UPDATE ON public_services
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
