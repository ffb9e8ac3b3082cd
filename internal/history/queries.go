package history

const queryCreateTable = `
	CREATE TABLE IF NOT EXISTS error_events (
		id UUID PRIMARY KEY,
		kind TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		record JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

const queryCreateIndex = `
	CREATE INDEX IF NOT EXISTS idx_error_events_created_at ON error_events (created_at DESC)
`

const queryInsert = `
	INSERT INTO error_events (id, kind, type, title, message, record, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

const queryList = `
	SELECT id, kind, type, title, message, record, created_at
	FROM error_events
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2
`

const queryCount = `
	SELECT COUNT(*) FROM error_events
`
