package migrate

// Steps is the ordered schema history of the registration database.
// Names are timestamp-prefixed; never reorder or edit an entry that
// has shipped, append a new one.
var Steps = []Step{
	{
		Name: "20250301120000_create_users",
		Up: `CREATE TABLE users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			country VARCHAR(3) NOT NULL,
			role TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_login_at TIMESTAMPTZ
		);
		CREATE INDEX idx_users_country ON users (country);`,
		Down: `DROP TABLE users;`,
	},
	{
		Name: "20250301120500_create_tournaments",
		Up: `CREATE TABLE tournaments (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		Down: `DROP TABLE tournaments;`,
	},
	{
		Name: "20250308090000_create_gymnasts",
		Up: `CREATE TABLE gymnasts (
			id BIGSERIAL PRIMARY KEY,
			fig_id TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			gender TEXT NOT NULL DEFAULT '',
			country VARCHAR(3) NOT NULL,
			date_of_birth TIMESTAMPTZ,
			category TEXT NOT NULL DEFAULT '',
			license_end TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX idx_gymnasts_country ON gymnasts (country);`,
		Down: `DROP TABLE gymnasts;`,
	},
	{
		Name: "20250308091000_create_choreographies",
		Up: `CREATE TABLE choreographies (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			type TEXT NOT NULL,
			country VARCHAR(3) NOT NULL,
			tournament_id BIGINT NOT NULL REFERENCES tournaments (id),
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX idx_choreographies_country ON choreographies (country);
		CREATE INDEX idx_choreographies_tournament ON choreographies (tournament_id);
		CREATE TABLE choreography_gymnasts (
			choreography_id BIGINT NOT NULL REFERENCES choreographies (id) ON DELETE CASCADE,
			gymnast_id BIGINT NOT NULL REFERENCES gymnasts (id),
			PRIMARY KEY (choreography_id, gymnast_id)
		);`,
		Down: `DROP TABLE choreography_gymnasts;
		DROP TABLE choreographies;`,
	},
	{
		Name: "20250315100000_create_coaches_judges",
		Up: `CREATE TABLE coaches (
			id BIGSERIAL PRIMARY KEY,
			fig_id TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			gender TEXT NOT NULL DEFAULT '',
			country VARCHAR(3) NOT NULL,
			level TEXT NOT NULL,
			tournament_id BIGINT NOT NULL REFERENCES tournaments (id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX idx_coaches_country ON coaches (country);
		CREATE INDEX idx_coaches_tournament ON coaches (tournament_id);
		CREATE TABLE judges (
			id BIGSERIAL PRIMARY KEY,
			fig_id TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			gender TEXT NOT NULL DEFAULT '',
			country VARCHAR(3) NOT NULL,
			category TEXT NOT NULL,
			tournament_id BIGINT NOT NULL REFERENCES tournaments (id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX idx_judges_country ON judges (country);
		CREATE INDEX idx_judges_tournament ON judges (tournament_id);`,
		Down: `DROP TABLE judges;
		DROP TABLE coaches;`,
	},
	{
		Name: "20250322083000_create_support_staff",
		Up: `CREATE TABLE support_staffs (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			role TEXT NOT NULL,
			country VARCHAR(3) NOT NULL,
			tournament_id BIGINT NOT NULL REFERENCES tournaments (id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX idx_support_staffs_country ON support_staffs (country);
		CREATE INDEX idx_support_staffs_tournament ON support_staffs (tournament_id);`,
		Down: `DROP TABLE support_staffs;`,
	},
	{
		// Registration lifecycle. Rows created before the workflow
		// existed were all confirmed on paper, so the backfill marks
		// them REGISTERED once. That is a data correction, not a
		// transition the API allows.
		Name: "20250410140000_add_status",
		Up: `ALTER TABLE choreographies ADD COLUMN status TEXT NOT NULL DEFAULT 'PENDING';
		ALTER TABLE coaches ADD COLUMN status TEXT NOT NULL DEFAULT 'PENDING';
		ALTER TABLE judges ADD COLUMN status TEXT NOT NULL DEFAULT 'PENDING';
		ALTER TABLE support_staffs ADD COLUMN status TEXT NOT NULL DEFAULT 'PENDING';
		UPDATE choreographies SET status = 'REGISTERED' WHERE status = 'PENDING';
		UPDATE coaches SET status = 'REGISTERED' WHERE status = 'PENDING';
		UPDATE judges SET status = 'REGISTERED' WHERE status = 'PENDING';
		UPDATE support_staffs SET status = 'REGISTERED' WHERE status = 'PENDING';`,
		Down: `ALTER TABLE choreographies DROP COLUMN status;
		ALTER TABLE coaches DROP COLUMN status;
		ALTER TABLE judges DROP COLUMN status;
		ALTER TABLE support_staffs DROP COLUMN status;`,
	},
}
