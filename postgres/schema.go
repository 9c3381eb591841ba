package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS make_methods (
    id                 TEXT PRIMARY KEY,
    job_id             TEXT NOT NULL,
    parent_material_id TEXT,
    item_id            TEXT NOT NULL,
    parent_method_id   TEXT REFERENCES make_methods(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS operations (
    id                 TEXT PRIMARY KEY,
    job_id             TEXT NOT NULL,
    company_id         TEXT NOT NULL,
    make_method_id     TEXT NOT NULL REFERENCES make_methods(id) ON DELETE CASCADE,
    "order"            INT NOT NULL,
    operation_order    TEXT NOT NULL,
    process_id         TEXT NOT NULL,
    work_center_id     TEXT,
    setup_time         DOUBLE PRECISION,
    setup_unit         TEXT,
    labor_time         DOUBLE PRECISION,
    labor_unit         TEXT,
    machine_time       DOUBLE PRECISION,
    machine_unit       TEXT,
    quantity           DOUBLE PRECISION NOT NULL DEFAULT 1,
    lead_time_days     INT,
    consumes_item_ids  TEXT[] NOT NULL DEFAULT '{}',
    start_date         DATE,
    due_date           DATE,
    status             TEXT NOT NULL DEFAULT 'Ready',
    type               TEXT NOT NULL DEFAULT 'Inside',
    priority           INT,
    fractional_priority DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS job_dependencies (
    job_id      TEXT NOT NULL,
    operation_id TEXT NOT NULL,
    depends_on   TEXT NOT NULL,
    PRIMARY KEY (job_id, operation_id, depends_on)
);

CREATE TABLE IF NOT EXISTS jobs (
    id            TEXT PRIMARY KEY,
    company_id    TEXT NOT NULL,
    location_id   TEXT NOT NULL,
    due_date      DATE,
    start_date    DATE,
    priority      INT,
    deadline_type TEXT NOT NULL DEFAULT 'No Deadline'
);

CREATE TABLE IF NOT EXISTS processes (
    id             TEXT PRIMARY KEY,
    company_id     TEXT NOT NULL,
    name           TEXT NOT NULL,
    work_center_ids TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS work_centers (
    id          TEXT PRIMARY KEY,
    company_id  TEXT NOT NULL,
    name        TEXT NOT NULL,
    location_id TEXT NOT NULL,
    active      BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS idx_operations_job_id ON operations(job_id);
CREATE INDEX IF NOT EXISTS idx_operations_method_id ON operations(make_method_id);
CREATE INDEX IF NOT EXISTS idx_operations_work_center_id ON operations(work_center_id);
CREATE INDEX IF NOT EXISTS idx_make_methods_job_id ON make_methods(job_id);
CREATE INDEX IF NOT EXISTS idx_job_dependencies_job_id ON job_dependencies(job_id);
CREATE INDEX IF NOT EXISTS idx_processes_company_id ON processes(company_id);
CREATE INDEX IF NOT EXISTS idx_work_centers_company_location ON work_centers(company_id, location_id);
`

// CreateSchema creates every table this store needs, if absent —
// mirrors the teacher's PGStore.CreateSchema.
func (s *Store) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops every table this store owns.
func (s *Store) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS job_dependencies, operations, make_methods, processes, work_centers, jobs CASCADE;`)
	return err
}
