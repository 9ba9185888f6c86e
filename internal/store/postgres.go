package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cosmossdk.io/math"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TsigelnikovNikita/mySwap/internal/model"
)

// PostgresStore implements Store using PostgreSQL as the source of truth.
// Amounts are stored as NUMERIC(78,0), wide enough for any 256-bit value,
// and travel as decimal text in both directions.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS pools (
		id              TEXT PRIMARY KEY,
		address         TEXT NOT NULL UNIQUE,
		owner           TEXT NOT NULL,
		token_symbol    TEXT NOT NULL UNIQUE,
		fee_numerator   BIGINT NOT NULL,
		fee_denominator BIGINT NOT NULL,
		base_reserve    NUMERIC(78, 0) NOT NULL DEFAULT 0,
		token_reserve   NUMERIC(78, 0) NOT NULL DEFAULT 0,
		total_shares    NUMERIC(78, 0) NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS positions (
		pool_id    TEXT NOT NULL REFERENCES pools(id),
		provider   TEXT NOT NULL,
		shares     NUMERIC(78, 0) NOT NULL CHECK (shares > 0),
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (pool_id, provider)
	);
	CREATE INDEX IF NOT EXISTS idx_positions_provider ON positions(provider);

	CREATE TABLE IF NOT EXISTS ledger_entries (
		id            TEXT PRIMARY KEY,
		pool_id       TEXT NOT NULL REFERENCES pools(id),
		account       TEXT NOT NULL,
		kind          TEXT NOT NULL,
		base_amount   NUMERIC(78, 0) NOT NULL,
		token_amount  NUMERIC(78, 0) NOT NULL,
		shares        NUMERIC(78, 0) NOT NULL,
		counterparty  TEXT NOT NULL DEFAULT '',
		base_reserve  NUMERIC(78, 0) NOT NULL,
		token_reserve NUMERIC(78, 0) NOT NULL,
		timestamp     TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_ledger_entries_pool ON ledger_entries(pool_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_ledger_entries_account ON ledger_entries(account, timestamp);
`

// EnsureSchema creates the tables if they don't exist. Safe to run on every
// start.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreatePool(ctx context.Context, p *model.Pool) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO pools (id, address, owner, token_symbol, fee_numerator, fee_denominator,
		                    base_reserve, token_reserve, total_shares, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::NUMERIC, $8::NUMERIC, $9::NUMERIC, $10, $11)`,
		p.ID, p.Address, p.Owner, p.TokenSymbol,
		int64(p.FeeNumerator), int64(p.FeeDenominator),
		intText(p.BaseReserve), intText(p.TokenReserve), intText(p.TotalShares),
		p.CreatedAt, p.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrPoolExists, pgErr.ConstraintName)
	}
	return err
}

const poolColumns = `id, address, owner, token_symbol, fee_numerator, fee_denominator,
		        base_reserve::TEXT, token_reserve::TEXT, total_shares::TEXT,
		        created_at, updated_at`

func (s *PostgresStore) GetPool(ctx context.Context, id string) (*model.Pool, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+poolColumns+` FROM pools WHERE id = $1`, id)
	p, err := scanPool(row)
	if err != nil {
		return nil, fmt.Errorf("get pool %s: %w", id, notFound(err))
	}
	return p, nil
}

func (s *PostgresStore) GetPoolByToken(ctx context.Context, symbol string) (*model.Pool, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+poolColumns+` FROM pools WHERE token_symbol = $1`, symbol)
	p, err := scanPool(row)
	if err != nil {
		return nil, fmt.Errorf("get pool by token %s: %w", symbol, notFound(err))
	}
	return p, nil
}

func (s *PostgresStore) ListPools(ctx context.Context) ([]model.Pool, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+poolColumns+` FROM pools ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []model.Pool
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		pools = append(pools, *p)
	}
	return pools, rows.Err()
}

func (s *PostgresStore) UpdatePoolState(ctx context.Context, id string, base, token, totalShares math.Int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE pools
		 SET base_reserve = $2::NUMERIC, token_reserve = $3::NUMERIC,
		     total_shares = $4::NUMERIC, updated_at = $5
		 WHERE id = $1`,
		id, intText(base), intText(token), intText(totalShares), time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pool %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetPositions applies all position changes in one batch.
func (s *PostgresStore) SetPositions(ctx context.Context, poolID string, positions []model.Position) error {
	if len(positions) == 0 {
		return nil
	}
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, pos := range positions {
		if pos.Shares.IsNil() || pos.Shares.IsZero() {
			batch.Queue(`DELETE FROM positions WHERE pool_id = $1 AND provider = $2`, poolID, pos.Provider)
			continue
		}
		batch.Queue(`
			INSERT INTO positions (pool_id, provider, shares, updated_at)
			VALUES ($1, $2, $3::NUMERIC, $4)
			ON CONFLICT (pool_id, provider)
			DO UPDATE SET shares = EXCLUDED.shares, updated_at = EXCLUDED.updated_at
		`, poolID, pos.Provider, intText(pos.Shares), now)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range positions {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) GetPoolPositions(ctx context.Context, poolID string) ([]model.Position, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT pool_id, provider, shares::TEXT, updated_at
		 FROM positions WHERE pool_id = $1 ORDER BY provider`, poolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPositions(rows)
}

func (s *PostgresStore) GetAccountPositions(ctx context.Context, account string) ([]model.Position, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT pool_id, provider, shares::TEXT, updated_at
		 FROM positions WHERE provider = $1 ORDER BY pool_id`, account)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPositions(rows)
}

func (s *PostgresStore) InsertLedgerEntry(ctx context.Context, e *model.LedgerEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ledger_entries (id, pool_id, account, kind, base_amount, token_amount, shares,
		                             counterparty, base_reserve, token_reserve, timestamp)
		 VALUES ($1, $2, $3, $4, $5::NUMERIC, $6::NUMERIC, $7::NUMERIC, $8, $9::NUMERIC, $10::NUMERIC, $11)`,
		e.ID, e.PoolID, e.Account, e.Kind,
		intText(e.BaseAmount), intText(e.TokenAmount), intText(e.Shares),
		e.Counterparty, intText(e.BaseReserve), intText(e.TokenReserve),
		e.Timestamp,
	)
	return err
}

const ledgerColumns = `id, pool_id, account, kind,
		        base_amount::TEXT, token_amount::TEXT, shares::TEXT,
		        counterparty, base_reserve::TEXT, token_reserve::TEXT, timestamp`

func (s *PostgresStore) GetLedgerEntriesByPool(ctx context.Context, poolID string) ([]model.LedgerEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries WHERE pool_id = $1 ORDER BY timestamp`, poolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

func (s *PostgresStore) GetLedgerEntriesByAccount(ctx context.Context, account string) ([]model.LedgerEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries
		 WHERE account = $1 OR counterparty = $1 ORDER BY timestamp`, account)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

// --- scanning helpers ---

type pgxRow interface {
	Scan(dest ...interface{}) error
}

// pgxRows is the subset of pgx.Rows the scanners need.
type pgxRows interface {
	pgxRow
	Next() bool
	Err() error
}

func scanPool(row pgxRow) (*model.Pool, error) {
	var p model.Pool
	var feeNum, feeDen int64
	var baseS, tokenS, sharesS string

	if err := row.Scan(&p.ID, &p.Address, &p.Owner, &p.TokenSymbol, &feeNum, &feeDen,
		&baseS, &tokenS, &sharesS, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.FeeNumerator, p.FeeDenominator = uint64(feeNum), uint64(feeDen)

	var err error
	if p.BaseReserve, err = parseInt(baseS); err != nil {
		return nil, err
	}
	if p.TokenReserve, err = parseInt(tokenS); err != nil {
		return nil, err
	}
	if p.TotalShares, err = parseInt(sharesS); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPositions(rows pgxRows) ([]model.Position, error) {
	var positions []model.Position
	for rows.Next() {
		var pos model.Position
		var sharesS string
		if err := rows.Scan(&pos.PoolID, &pos.Provider, &sharesS, &pos.UpdatedAt); err != nil {
			return nil, err
		}
		shares, err := parseInt(sharesS)
		if err != nil {
			return nil, err
		}
		pos.Shares = shares
		positions = append(positions, pos)
	}
	return positions, rows.Err()
}

func scanLedgerEntries(rows pgxRows) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		var baseS, tokenS, sharesS, baseResS, tokenResS string

		if err := rows.Scan(&e.ID, &e.PoolID, &e.Account, &e.Kind,
			&baseS, &tokenS, &sharesS,
			&e.Counterparty, &baseResS, &tokenResS, &e.Timestamp); err != nil {
			return nil, err
		}

		for _, f := range []struct {
			dst *math.Int
			src string
		}{
			{&e.BaseAmount, baseS}, {&e.TokenAmount, tokenS}, {&e.Shares, sharesS},
			{&e.BaseReserve, baseResS}, {&e.TokenReserve, tokenResS},
		} {
			v, err := parseInt(f.src)
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func parseInt(s string) (math.Int, error) {
	v, ok := math.NewIntFromString(s)
	if !ok {
		return math.ZeroInt(), fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

func intText(v math.Int) string {
	if v.IsNil() {
		return "0"
	}
	return v.String()
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
