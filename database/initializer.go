package database

import (
	"log"
)

func (s *PostgreSQLStore) Initialize() error {
	// Init all enums
	log.Println("Initializing PostgresSQL Database.", "Initializing Enums")
	if err := s.InitEnums(); err != nil {
		return err
	}
	// Init constraints GORM cannot express
	log.Println("Initializing PostgresSQL Database.", "Initializing Constraints")
	if err := s.InitConstraints(); err != nil {
		return err
	}
	return nil
}

// InitEnums creates the native enum types the pipeline columns reference.
// Values mirror the constants in the model package; adding a value means
// altering the type here and adding the constant there.
func (s *PostgreSQLStore) InitEnums() error {
	query := `
		DO $$
		BEGIN
           	IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'candidate_status') THEN
				CREATE TYPE candidate_status AS ENUM ('new', 'screening', 'registered', 'training', 'visa_process', 'ready', 'departed', 'completed', 'rejected', 'dropped');
           	END IF;
		END $$;

		DO $$
		BEGIN
           	IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'visa_stage') THEN
				CREATE TYPE visa_stage AS ENUM ('interview', 'takamol', 'medical', 'biometric', 'enumber', 'visa', 'ptn', 'completed');
           	END IF;
		END $$;

		DO $$
		BEGIN
           	IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'visa_overall_status') THEN
				CREATE TYPE visa_overall_status AS ENUM ('in_progress', 'on_hold', 'completed', 'rejected');
           	END IF;
		END $$;

		DO $$
		BEGIN
           	IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'complaint_priority') THEN
				CREATE TYPE complaint_priority AS ENUM ('low', 'medium', 'high', 'critical');
           	END IF;
		END $$;

		DO $$
		BEGIN
           	IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'complaint_status') THEN
				CREATE TYPE complaint_status AS ENUM ('open', 'assigned', 'in_progress', 'resolved', 'closed');
           	END IF;
		END $$;

		DO $$
		BEGIN
           	IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'document_status') THEN
				CREATE TYPE document_status AS ENUM ('active', 'expired', 'replaced');
           	END IF;
		END $$;
	`
	_, err := s.db.Exec(query)

	return err
}

// InitConstraints adds partial unique indexes enforcing invariants at the
// database level, as a second line behind the row-locked service paths. Runs
// after AutoMigrate has created the tables.
func (s *PostgreSQLStore) InitConstraints() error {
	query := `
		-- One pending screening attempt per candidate.
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_pending_screening
			ON screenings (candidate_id)
			WHERE status = 'pending' AND deleted_at IS NULL;

		-- One visa process per candidate.
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_visa_processing
			ON visa_processings (candidate_id)
			WHERE deleted_at IS NULL;

		-- One registration per candidate.
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_registration
			ON registrations (candidate_id)
			WHERE deleted_at IS NULL;

		-- Batch numbers are unique within a campus/program/trade key.
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_batch_number
			ON batches (campus_id, program_id, trade_id, number)
			WHERE deleted_at IS NULL;

		-- Allocation numbers never repeat.
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_allocated_number
			ON candidates (allocated_number)
			WHERE allocated_number <> '' AND deleted_at IS NULL;
	`
	_, err := s.db.Exec(query)

	return err
}
