package anchor

import (
	"context"
	"errors"
	"testing"

	"github.com/osvaldoandrade/w3bstitch/internal/domain"
)

type fakeLister struct {
	query    ReceiptQuery
	receipts []Receipt
	err      error
}

func (f *fakeLister) List(ctx context.Context, query ReceiptQuery) ([]Receipt, error) {
	f.query = query
	return f.receipts, f.err
}

func TestReceiptServiceDisabled(t *testing.T) {
	service := NewReceiptService(nil)
	if service.Enabled() {
		t.Fatalf("expected disabled service")
	}
	_, err := service.List(context.Background(), ReceiptQuery{})
	if !errors.Is(err, ErrJournalDisabled) {
		t.Fatalf("expected ErrJournalDisabled, got %v", err)
	}
}

func TestReceiptServiceNormalizesQuery(t *testing.T) {
	tests := []struct {
		name  string
		in    ReceiptQuery
		limit int
	}{
		{name: "default", in: ReceiptQuery{}, limit: DefaultReceiptLimit},
		{name: "explicit", in: ReceiptQuery{Limit: 3}, limit: 3},
		{name: "capped", in: ReceiptQuery{Limit: 10000}, limit: MaxReceiptLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &fakeLister{}
			if _, err := NewReceiptService(lister).List(context.Background(), tt.in); err != nil {
				t.Fatalf("List returned error: %v", err)
			}
			if lister.query.Limit != tt.limit {
				t.Fatalf("expected limit %d, got %d", tt.limit, lister.query.Limit)
			}
		})
	}
}

func TestReceiptServiceLowercasesHashAndParsesNetwork(t *testing.T) {
	lister := &fakeLister{}
	_, err := NewReceiptService(lister).List(context.Background(), ReceiptQuery{ContentHash: " ABCD ", Network: "L1"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if lister.query.ContentHash != "abcd" {
		t.Fatalf("unexpected hash: %q", lister.query.ContentHash)
	}
	if lister.query.Network != domain.NetworkL1 {
		t.Fatalf("unexpected network: %q", lister.query.Network)
	}
}

func TestReceiptServiceRejectsBadInput(t *testing.T) {
	service := NewReceiptService(&fakeLister{})
	if _, err := service.List(context.Background(), ReceiptQuery{Limit: -1}); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := service.List(context.Background(), ReceiptQuery{Network: "l3"}); !errors.Is(err, domain.ErrInvalidNetwork) {
		t.Fatalf("expected ErrInvalidNetwork, got %v", err)
	}
}

func TestReceiptServiceWrapsListerError(t *testing.T) {
	boom := errors.New("disk I/O error")
	_, err := NewReceiptService(&fakeLister{err: boom}).List(context.Background(), ReceiptQuery{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
