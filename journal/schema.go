package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	strategy TEXT NOT NULL,
	dataset TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	config TEXT NOT NULL,
	initial_capital REAL NOT NULL,
	final_capital REAL NOT NULL,
	total_return_pct REAL NOT NULL,
	sharpe_ratio REAL NOT NULL,
	max_drawdown_pct REAL NOT NULL,
	win_rate_pct REAL NOT NULL,
	total_trades INTEGER NOT NULL,
	rejected_trades INTEGER NOT NULL,
	stop_losses INTEGER NOT NULL,
	total_commission REAL NOT NULL,
	total_slippage REAL NOT NULL,
	total_costs REAL NOT NULL,
	costs_pct REAL NOT NULL,
	round_trips INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	win_rate REAL NOT NULL,
	avg_win REAL NOT NULL,
	avg_loss REAL NOT NULL,
	kelly_active BOOLEAN NOT NULL,
	org_path TEXT NOT NULL DEFAULT '',
	equity_png TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created);

CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	kind TEXT NOT NULL,
	date DATETIME NOT NULL,
	price REAL NOT NULL,
	effective_price REAL NOT NULL,
	shares INTEGER NOT NULL,
	commission REAL NOT NULL,
	slippage REAL NOT NULL,
	cash REAL NOT NULL,
	pnl REAL NOT NULL,
	stop_loss_price REAL NOT NULL,
	target_price REAL NOT NULL,
	risk_reward REAL NOT NULL,
	sizing TEXT NOT NULL,
	value_after REAL NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS rejections (
	run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	date DATETIME NOT NULL,
	side TEXT NOT NULL,
	code TEXT NOT NULL,
	reason TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	date DATETIME NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`
