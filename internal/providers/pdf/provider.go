package pdf

import (
	"context"
	"io"
)

type Provider interface {
	GenerateBill(ctx context.Context, data BillData) (io.Reader, error)
}
