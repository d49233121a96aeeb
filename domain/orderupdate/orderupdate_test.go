package orderupdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/domain"
)

func TestContextsAreDistinct(t *testing.T) {
	req := require.New(t)
	id := domain.OrderHash("0x2f4fdff9082aede554f65adce4468e7ce84aceb74363f4ea64e5a038176f3690")
	tx := domain.TxHash("0xb32c0eefd9f89677fd7e7dfe4bd8683d5a41fae3a47a5d530d75dc410c60bc81")
	checkedAt := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

	contexts := []string{
		NewOrderContext(id),
		FilledContext(id, tx),
		CancelledContext(id, tx, 1, 0),
		CancelledContext(id, tx, 1, 1),
		CancelledContext(id, tx, 2, 0),
		RepriceContext(id, tx),
		ExpiredContext(id, checkedAt),
		ExpiredContext(id, checkedAt.Add(time.Minute)),
		RevalidationContext(TriggerBalanceChange, id, tx),
		RevalidationContext(TriggerApprovalChange, id, tx),
	}

	seen := map[string]bool{}
	for _, c := range contexts {
		req.False(seen[c], c)
		seen[c] = true
	}
}

func TestContextsAreStable(t *testing.T) {
	req := require.New(t)
	id := domain.OrderHash("0xabc")
	tx := domain.TxHash("0xdef")

	req.Equal(FilledContext(id, tx), FilledContext(id, tx))
	req.Equal(CancelledContext(id, tx, 3, 1), CancelledContext(id, tx, 3, 1))
	req.Equal(
		ExpiredContext(id, time.Unix(1700000000, 0)),
		ExpiredContext(id, time.Unix(1700000000, 500)),
	)
}
