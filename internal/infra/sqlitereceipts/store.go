package sqlitereceipts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/osvaldoandrade/w3bstitch/internal/app/anchor"
	"github.com/osvaldoandrade/w3bstitch/internal/domain"
	_ "modernc.org/sqlite"
)

type IDGenerator interface {
	NewID() (string, error)
}

// Store is the anchor receipt journal. It implements anchor.Journal and
// anchor.ReceiptLister.
type Store struct {
	db    *sql.DB
	idGen IDGenerator
}

func Open(path string, idGen IDGenerator) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path required")
	}
	if idGen == nil {
		return nil, errors.New("id generator required")
	}

	if shouldCreateDir(path) {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db, idGen: idGen}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Record(ctx context.Context, receipt anchor.Receipt) (anchor.Receipt, error) {
	if strings.TrimSpace(receipt.TxHash) == "" {
		return anchor.Receipt{}, errors.New("receipt tx hash required")
	}
	if receipt.ID == "" {
		id, err := s.idGen.NewID()
		if err != nil {
			return anchor.Receipt{}, err
		}
		receipt.ID = id
	}
	if receipt.CreatedAt.IsZero() {
		receipt.CreatedAt = time.Now()
	}
	receipt.CreatedAt = receipt.CreatedAt.UTC()

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO anchor_receipts (id, tx_hash, content_hash, network, address, chain_id, nonce, data_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		receipt.ID,
		receipt.TxHash,
		receipt.ContentHash,
		string(receipt.Network),
		receipt.Address,
		receipt.ChainID,
		int64(receipt.Nonce),
		receipt.DataSize,
		receipt.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return anchor.Receipt{}, fmt.Errorf("insert receipt: %w", err)
	}
	return receipt, nil
}

func (s *Store) List(ctx context.Context, query anchor.ReceiptQuery) ([]anchor.Receipt, error) {
	var where []string
	var args []any
	if query.ContentHash != "" {
		where = append(where, "content_hash = ?")
		args = append(args, query.ContentHash)
	}
	if query.Network != "" {
		where = append(where, "network = ?")
		args = append(args, string(query.Network))
	}
	limit := query.Limit
	if limit <= 0 {
		limit = anchor.DefaultReceiptLimit
	}

	stmt := "SELECT id, tx_hash, content_hash, network, address, chain_id, nonce, data_size, created_at FROM anchor_receipts"
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	receipts := []anchor.Receipt{}
	for rows.Next() {
		var receipt anchor.Receipt
		var network string
		var nonce int64
		var createdAt string
		if err := rows.Scan(
			&receipt.ID,
			&receipt.TxHash,
			&receipt.ContentHash,
			&network,
			&receipt.Address,
			&receipt.ChainID,
			&nonce,
			&receipt.DataSize,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		receipt.Network = domain.Network(network)
		receipt.Nonce = uint64(nonce)
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse receipt time %q: %w", createdAt, err)
		}
		receipt.CreatedAt = parsed
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipts: %w", err)
	}
	return receipts, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	var mode string
	if err := s.db.QueryRowContext(ctx, "PRAGMA journal_mode = WAL").Scan(&mode); err != nil {
		return fmt.Errorf("set journal_mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS anchor_receipts (
			id TEXT PRIMARY KEY,
			tx_hash TEXT NOT NULL UNIQUE,
			content_hash TEXT NOT NULL,
			network TEXT NOT NULL,
			address TEXT NOT NULL,
			chain_id TEXT NOT NULL DEFAULT '',
			nonce INTEGER NOT NULL,
			data_size INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create receipts table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS anchor_receipts_content_hash ON anchor_receipts (content_hash)
	`); err != nil {
		return fmt.Errorf("create content hash index: %w", err)
	}
	return nil
}

func shouldCreateDir(path string) bool {
	if path == ":memory:" {
		return false
	}
	if strings.HasPrefix(path, "file:") {
		return false
	}
	return true
}
