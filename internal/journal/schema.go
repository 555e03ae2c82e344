package journal

const schemaSQL = `
CREATE TABLE IF NOT EXISTS write_attempts (
    id              TEXT PRIMARY KEY,
    kind            TEXT NOT NULL,
    user_id         TEXT NOT NULL,
    amount          REAL,
    category        TEXT,
    expense_date    TEXT,
    description     TEXT,
    email           TEXT,
    status          TEXT NOT NULL,
    status_code     INTEGER,
    error           TEXT,
    expense_id      TEXT,
    duration_ms     INTEGER,
    attempted_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_attempts_user ON write_attempts(user_id, attempted_at);
CREATE INDEX IF NOT EXISTS idx_attempts_status ON write_attempts(status);
`
