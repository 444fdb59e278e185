package inbound

import (
	"context"

	"github.com/shandysiswandi/otcgate/internal/notification/usecase"
)

type uc interface {
	DeliverCode(ctx context.Context, in usecase.DeliverCodeInput) error
}
