package anchor

import (
	"context"
	"fmt"
	"strings"

	"github.com/osvaldoandrade/w3bstitch/internal/domain"
)

type ReceiptService struct {
	lister ReceiptLister
}

// NewReceiptService reads the receipt journal. lister may be nil, in which
// case every call fails with ErrJournalDisabled.
func NewReceiptService(lister ReceiptLister) *ReceiptService {
	return &ReceiptService{lister: lister}
}

func (s *ReceiptService) Enabled() bool {
	return s != nil && s.lister != nil
}

func (s *ReceiptService) List(ctx context.Context, query ReceiptQuery) ([]Receipt, error) {
	if !s.Enabled() {
		return nil, ErrJournalDisabled
	}
	if query.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	if query.Limit == 0 {
		query.Limit = DefaultReceiptLimit
	}
	if query.Limit > MaxReceiptLimit {
		query.Limit = MaxReceiptLimit
	}
	query.ContentHash = strings.ToLower(strings.TrimSpace(query.ContentHash))
	if query.Network != "" {
		network, err := domain.ParseNetwork(string(query.Network))
		if err != nil {
			return nil, err
		}
		query.Network = network
	}

	receipts, err := s.lister.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, nil
}
