package domain

import "time"

// LogMeta identifies one emitted log inside one transaction. BatchIndex
// disambiguates multiple decoded events coming out of the same log.
type LogMeta struct {
	BlockNumber     BlockNumber
	BlockHash       BlockHash
	BlockTime       time.Time
	TxHash          TxHash
	TxIndex         uint
	LogIndex        uint
	BatchIndex      uint
	ContractAddress Address
	MsgSender       Address
}
