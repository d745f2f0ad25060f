// ABOUTME: SQLite database schema for proposal storage
// ABOUTME: Creates proposals, portfolio, tracking, profile, and document tables with indexes
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Freelancer profile singleton table
CREATE TABLE IF NOT EXISTS freelancer_profile (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    name TEXT,
    title TEXT,
    signature TEXT,
    github_url TEXT,
    stackoverflow_url TEXT,
    website_url TEXT,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Generated proposals
CREATE TABLE IF NOT EXISTS proposals (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    job_title TEXT,
    job_description TEXT NOT NULL,
    generated_proposal TEXT NOT NULL,
    budget_range TEXT,
    project_duration TEXT,
    included_projects TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Portfolio projects with their embeddings (little-endian float64 BLOB)
CREATE TABLE IF NOT EXISTS portfolio_projects (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    tags TEXT,
    ai_summary TEXT,
    technologies TEXT,
    project_type TEXT DEFAULT 'other',
    complexity_level TEXT DEFAULT 'intermediate',
    embedding BLOB,
    github_url TEXT,
    live_url TEXT,
    app_store_url TEXT,
    images TEXT,
    is_featured INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Outcome tracking for submitted proposals
CREATE TABLE IF NOT EXISTS proposal_tracking (
    id TEXT PRIMARY KEY,
    proposal_id TEXT NOT NULL REFERENCES proposals(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    proposal_link TEXT,
    connected INTEGER DEFAULT 0,
    posted_ago TEXT,
    is_viewed INTEGER DEFAULT 0,
    is_hired INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Searchable documents with their embeddings
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    mime_type TEXT DEFAULT 'text/plain',
    content TEXT NOT NULL,
    summary TEXT,
    embedding BLOB,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_proposals_user ON proposals(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_portfolio_user ON portfolio_projects(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_portfolio_type ON portfolio_projects(project_type);
CREATE INDEX IF NOT EXISTS idx_tracking_user ON proposal_tracking(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_tracking_proposal ON proposal_tracking(proposal_id);
CREATE INDEX IF NOT EXISTS idx_documents_user ON documents(user_id, created_at);
`
