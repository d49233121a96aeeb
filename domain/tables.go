package domain

// Table is a mongo collection name
type Table string

const (
	TableOrders            Table = "orders"
	TableOrderEvents       Table = "order_events"
	TableTokenSets         Table = "token_sets"
	TableTokenSetTokens    Table = "token_set_tokens"
	TableFillEvents        Table = "fill_events"
	TableCancelEvents      Table = "cancel_events"
	TableBulkCancelEvents  Table = "bulk_cancel_events"
	TableNonceCancelEvents Table = "nonce_cancel_events"
	TableTokens            Table = "tokens"
	TableCollections       Table = "collections"
	TableCurrencies        Table = "currencies"
	TableUsdPrices         Table = "usd_prices"
	TableSources           Table = "sources"
	TableActivities        Table = "activities"
	TableRoyalties         Table = "royalties"
	TableNftBalances       Table = "nft_balances"
	TableNftApprovals      Table = "nft_approvals"
	TableTrackerStates     Table = "tracker_states"
)
