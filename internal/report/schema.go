package report

const schemaSQL = `
CREATE TABLE IF NOT EXISTS report_runs (
    run_id               TEXT PRIMARY KEY,
    generated_at         TEXT NOT NULL,
    owner                TEXT,
    monthly_limit        TEXT NOT NULL,
    total_spent          TEXT NOT NULL,
    remaining            TEXT NOT NULL,
    utilization          REAL NOT NULL,
    health               TEXT NOT NULL,
    savings_rate_pct     INTEGER NOT NULL,
    potential_savings    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS report_bills (
    run_id               TEXT NOT NULL REFERENCES report_runs(run_id) ON DELETE CASCADE,
    bill_id              INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    amount               TEXT NOT NULL,
    category             TEXT NOT NULL,
    due_date             TEXT NOT NULL,
    status               TEXT NOT NULL,
    display_status       TEXT NOT NULL,
    PRIMARY KEY (run_id, bill_id)
);

CREATE TABLE IF NOT EXISTS report_categories (
    run_id               TEXT NOT NULL REFERENCES report_runs(run_id) ON DELETE CASCADE,
    category             TEXT NOT NULL,
    amount               TEXT NOT NULL,
    PRIMARY KEY (run_id, category)
);

CREATE TABLE IF NOT EXISTS report_alternatives (
    run_id               TEXT NOT NULL REFERENCES report_runs(run_id) ON DELETE CASCADE,
    alternative_id       INTEGER NOT NULL,
    bill_id              INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    est_saving           TEXT NOT NULL,
    link                 TEXT,
    PRIMARY KEY (run_id, alternative_id)
);

CREATE INDEX IF NOT EXISTS idx_report_runs_generated ON report_runs(generated_at);
`
