package storage

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS feeds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		url TEXT,
		active BOOLEAN DEFAULT TRUE,
		last_fetched TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		feed_id INTEGER NOT NULL,
		guid TEXT,
		title TEXT,
		link TEXT,
		description TEXT,
		summary TEXT,
		content TEXT,
		author TEXT,
		categories TEXT,
		published_at TEXT,
		fetched_at TEXT,
		enclosure_url TEXT,
		enclosure_type TEXT,
		permalink TEXT,
		word_count INTEGER DEFAULT 0,
		has_media INTEGER DEFAULT 0,
		UNIQUE(feed_id, guid),
		FOREIGN KEY(feed_id) REFERENCES feeds(id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_votes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entry_id INTEGER NOT NULL,
		vote TEXT NOT NULL CHECK(vote IN ('like', 'neutral', 'dislike')),
		voted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(entry_id)
	)`,

	`CREATE TABLE IF NOT EXISTS link_opens (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entry_id INTEGER NOT NULL,
		opened_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS time_spent (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entry_id INTEGER NOT NULL,
		seconds INTEGER NOT NULL,
		recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS og_metadata (
		entry_id INTEGER PRIMARY KEY,
		og_title TEXT,
		og_description TEXT,
		og_image TEXT,
		og_site_name TEXT,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		fetch_error TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS models (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		is_active BOOLEAN DEFAULT FALSE,
		registered_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		metadata TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_entries_feed_published ON entries(feed_id, published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_votes_entry ON user_votes(entry_id)`,
	`CREATE INDEX IF NOT EXISTS idx_opens_entry ON link_opens(entry_id)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entry ON time_spent(entry_id)`,
	`CREATE INDEX IF NOT EXISTS idx_models_active ON models(is_active)`,
}
