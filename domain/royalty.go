package domain

// Royalty is one royalty payout leg in basis points of the order price
type Royalty struct {
	Recipient Address `json:"recipient" bson:"recipient"`
	Bps       int     `json:"bps" bson:"bps"`
}

func TotalBps(royalties []Royalty) int {
	total := 0
	for _, r := range royalties {
		total += r.Bps
	}
	return total
}

type FeeKind string

const (
	FeeKindRoyalty     FeeKind = "royalty"
	FeeKindMarketplace FeeKind = "marketplace"
)

// FeeBreakdown is one built-in fee leg carried by an order
type FeeBreakdown struct {
	Kind      FeeKind `json:"kind" bson:"kind"`
	Recipient Address `json:"recipient" bson:"recipient"`
	Bps       int     `json:"bps" bson:"bps"`
}
