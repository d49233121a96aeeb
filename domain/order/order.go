package order

import (
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
)

type Kind string

const (
	KindSeaport     Kind = "seaport"
	KindX2Y2        Kind = "x2y2"
	KindLooksRareV2 Kind = "looks-rare-v2"
	KindZeroExV4    Kind = "zeroex-v4"
	KindElement     Kind = "element"
	KindRarible     Kind = "rarible"
	KindUniverse    Kind = "universe"
	KindManifold    Kind = "manifold"
	KindSudoswapV2  Kind = "sudoswap-v2"
	KindWyvernV23   Kind = "wyvern-v2.3"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

type FillabilityStatus string

const (
	FillabilityFillable  FillabilityStatus = "fillable"
	FillabilityNoBalance FillabilityStatus = "no-balance"
	FillabilityCancelled FillabilityStatus = "cancelled"
	FillabilityFilled    FillabilityStatus = "filled"
	FillabilityExpired   FillabilityStatus = "expired"
)

type ApprovalStatus string

const (
	ApprovalApproved   ApprovalStatus = "approved"
	ApprovalNoApproval ApprovalStatus = "no-approval"
	ApprovalDisabled   ApprovalStatus = "disabled"
)

// Order is the normalized record shared by every marketplace protocol.
// Big number columns are stored as decimal strings.
type Order struct {
	ChainId                 domain.ChainId       `json:"chainId" bson:"chainId"`
	Id                      domain.OrderHash     `json:"id" bson:"id"`
	Kind                    Kind                 `json:"kind" bson:"kind"`
	Side                    Side                 `json:"side" bson:"side"`
	FillabilityStatus       FillabilityStatus    `json:"fillabilityStatus" bson:"fillabilityStatus"`
	ApprovalStatus          ApprovalStatus       `json:"approvalStatus" bson:"approvalStatus"`
	TokenSetId              domain.TokenSetId    `json:"tokenSetId" bson:"tokenSetId"`
	TokenSetSchemaHash      string               `json:"tokenSetSchemaHash" bson:"tokenSetSchemaHash"`
	Maker                   domain.Address       `json:"maker" bson:"maker"`
	Taker                   domain.Address       `json:"taker" bson:"taker"`
	Contract                domain.Address       `json:"contract" bson:"contract"`
	Conduit                 domain.Address       `json:"conduit" bson:"conduit"`
	Currency                domain.Address       `json:"currency" bson:"currency"`
	Price                   string               `json:"price" bson:"price"`
	Value                   string               `json:"value" bson:"value"`
	CurrencyPrice           string               `json:"currencyPrice" bson:"currencyPrice"`
	CurrencyValue           string               `json:"currencyValue" bson:"currencyValue"`
	NormalizedValue         string               `json:"normalizedValue" bson:"normalizedValue"`
	CurrencyNormalizedValue string               `json:"currencyNormalizedValue" bson:"currencyNormalizedValue"`
	QuantityRemaining       string               `json:"quantityRemaining" bson:"quantityRemaining"`
	QuantityFilled          string               `json:"quantityFilled" bson:"quantityFilled"`
	Nonce                   string               `json:"nonce" bson:"nonce"`
	// HexNonce is the nonce as 0x-prefixed zero-padded u256 so range
	// selectors compare correctly
	HexNonce string `json:"hexNonce" bson:"hexNonce"`
	SourceId                domain.SourceId      `json:"sourceId" bson:"sourceId"`
	FeeBps                  int                  `json:"feeBps" bson:"feeBps"`
	FeeBreakdown            []domain.FeeBreakdown `json:"feeBreakdown" bson:"feeBreakdown"`
	MissingRoyalties        []MissingRoyalty     `json:"missingRoyalties" bson:"missingRoyalties"`
	ValidFrom               time.Time            `json:"validFrom" bson:"validFrom"`
	// zero value means the order never expires
	ValidUntil   time.Time `json:"validUntil" bson:"validUntil"`
	IsDynamic    bool      `json:"isDynamic" bson:"isDynamic"`
	RawData      string    `json:"rawData" bson:"rawData"`
	OriginatedAt time.Time `json:"originatedAt" bson:"originatedAt"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// MissingRoyalty is the pro-rata share of the royalty gap toward the
// collection's default royalties, with its amount denominated in the
// order's pricing currency.
type MissingRoyalty struct {
	Recipient domain.Address `json:"recipient" bson:"recipient"`
	Bps       int            `json:"bps" bson:"bps"`
	Amount    string         `json:"amount" bson:"amount"`
}

func (o *Order) ToId() Id {
	return Id{
		ChainId: o.ChainId,
		Id:      o.Id,
	}
}

func (o *Order) LowerCase() {
	o.Id = o.Id.ToLower()
	o.Maker = o.Maker.ToLower()
	o.Taker = o.Taker.ToLower()
	o.Contract = o.Contract.ToLower()
	o.Conduit = o.Conduit.ToLower()
	o.Currency = o.Currency.ToLower()
}

// IsActive reports whether the order is currently fillable and approved
func (o *Order) IsActive() bool {
	return o.FillabilityStatus == FillabilityFillable && o.ApprovalStatus == ApprovalApproved
}

// IsOpenEnded reports whether the order has no expiration
func (o *Order) IsOpenEnded() bool {
	return o.ValidUntil.IsZero()
}

type Id struct {
	ChainId domain.ChainId   `json:"chainId" bson:"chainId"`
	Id      domain.OrderHash `json:"id" bson:"id"`
}

type Patchable struct {
	FillabilityStatus       *FillabilityStatus `bson:"fillabilityStatus,omitempty"`
	ApprovalStatus          *ApprovalStatus    `bson:"approvalStatus,omitempty"`
	Value                   *string            `bson:"value,omitempty"`
	CurrencyValue           *string            `bson:"currencyValue,omitempty"`
	NormalizedValue         *string            `bson:"normalizedValue,omitempty"`
	CurrencyNormalizedValue *string            `bson:"currencyNormalizedValue,omitempty"`
	MissingRoyalties        *[]MissingRoyalty  `bson:"missingRoyalties,omitempty"`
	FeeBps                  *int               `bson:"feeBps,omitempty"`
	FeeBreakdown            *[]domain.FeeBreakdown `bson:"feeBreakdown,omitempty"`
	QuantityRemaining       *string            `bson:"quantityRemaining,omitempty"`
	QuantityFilled          *string            `bson:"quantityFilled,omitempty"`
	ValidUntil              *time.Time         `bson:"validUntil,omitempty"`
	RawData                 *string            `bson:"rawData,omitempty"`
	UpdatedAt               *time.Time         `bson:"updatedAt,omitempty"`
}

type FindAllOptions struct {
	ChainId           *domain.ChainId
	Ids               *[]domain.OrderHash
	Kind              *Kind
	Side              *Side
	Maker             *domain.Address
	Contract          *domain.Address
	TokenSetId        *domain.TokenSetId
	FillabilityStatus *FillabilityStatus
	ApprovalStatus    *ApprovalStatus
	Nonce             *string
	NonceLT           *string
	ValidUntilLTE     *time.Time
	Offset            *int32
	Limit             *int32
	Sort              *string
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithChainId(chainId domain.ChainId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ChainId = &chainId
		return nil
	}
}

func WithIds(ids []domain.OrderHash) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Ids = &ids
		return nil
	}
}

func WithKind(kind Kind) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Kind = &kind
		return nil
	}
}

func WithSide(side Side) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Side = &side
		return nil
	}
}

func WithMaker(maker domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Maker = &maker
		return nil
	}
}

func WithContract(contract domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Contract = &contract
		return nil
	}
}

func WithTokenSetId(tokenSetId domain.TokenSetId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.TokenSetId = &tokenSetId
		return nil
	}
}

func WithFillabilityStatus(status FillabilityStatus) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.FillabilityStatus = &status
		return nil
	}
}

func WithApprovalStatus(status ApprovalStatus) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ApprovalStatus = &status
		return nil
	}
}

func WithNonce(nonce string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Nonce = &nonce
		return nil
	}
}

func WithNonceLT(nonce string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.NonceLT = &nonce
		return nil
	}
}

func WithValidUntilLTE(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ValidUntilLTE = &t
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func WithSort(sort string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Sort = &sort
		return nil
	}
}

// ExpirySweeper flips overdue fillable orders to expired and triggers
// their propagation
type ExpirySweeper interface {
	// SweepExpired processes up to limit overdue orders, returning how
	// many it transitioned
	SweepExpired(ctx ctx.Ctx, limit int32) (int, error)
}

// Revalidator re-runs the off-chain fillability check over a stored
// order, transitioning it between fillable and degraded states in both
// directions. Terminal orders are left untouched.
type Revalidator interface {
	// Revalidate reports whether the order's status changed, mutating o
	// to the new state when it did
	Revalidate(ctx ctx.Ctx, o *Order) (bool, error)
}

type Repo interface {
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Order, error)
	FindOne(ctx ctx.Ctx, id Id) (*Order, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	// Insert fails with domain.ErrConflict when an order with the same id exists
	Insert(ctx ctx.Ctx, order *Order) error
	Upsert(ctx ctx.Ctx, order *Order) error
	Update(ctx ctx.Ctx, id Id, patchable Patchable) error
	RemoveAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) error
}
