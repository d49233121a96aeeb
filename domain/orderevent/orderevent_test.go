package orderevent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/domain/order"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name        string
		fillability order.FillabilityStatus
		approval    order.ApprovalStatus
		want        Status
	}{
		{
			name:        "fillable and approved",
			fillability: order.FillabilityFillable,
			approval:    order.ApprovalApproved,
			want:        StatusActive,
		},
		{
			name:        "fillable without approval",
			fillability: order.FillabilityFillable,
			approval:    order.ApprovalNoApproval,
			want:        StatusInactive,
		},
		{
			name:        "fillable with disabled exchange",
			fillability: order.FillabilityFillable,
			approval:    order.ApprovalDisabled,
			want:        StatusInactive,
		},
		{
			name:        "no balance",
			fillability: order.FillabilityNoBalance,
			approval:    order.ApprovalApproved,
			want:        StatusInactive,
		},
		{
			name:        "filled wins over approval",
			fillability: order.FillabilityFilled,
			approval:    order.ApprovalNoApproval,
			want:        StatusFilled,
		},
		{
			name:        "cancelled wins over approval",
			fillability: order.FillabilityCancelled,
			approval:    order.ApprovalNoApproval,
			want:        StatusCancelled,
		},
		{
			name:        "expired wins over approval",
			fillability: order.FillabilityExpired,
			approval:    order.ApprovalDisabled,
			want:        StatusExpired,
		},
	}

	for _, c := range cases {
		require.Equal(t, c.want, StatusOf(c.fillability, c.approval), c.name)
	}
}
