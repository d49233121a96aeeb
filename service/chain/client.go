package chain

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	bCtx "github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
)

var ErrUnsupportedChain = errors.New("unsupported chain")

type ClientCfg struct {
	RpcUrls        map[int32]string
	ArchiveRpcUrls map[int32]string
}

// CallFrame is one node of a transaction call tree
type CallFrame struct {
	Type  string      `json:"type"`
	From  string      `json:"from"`
	To    string      `json:"to"`
	Input string      `json:"input"`
	Value string      `json:"value"`
	Calls []CallFrame `json:"calls"`
}

// Visit walks the call tree depth first
func (f *CallFrame) Visit(fn func(*CallFrame) bool) {
	if !fn(f) {
		return
	}
	for i := range f.Calls {
		f.Calls[i].Visit(fn)
	}
}

type Client interface {
	Call(bCtx.Ctx, int32, common.Address, *big.Int, abi.ABI, string, ...interface{}) ([]interface{}, error)
	FilterLogs(bCtx.Ctx, int32, ethereum.FilterQuery) ([]types.Log, error)
	HeaderByNumber(bCtx.Ctx, int32, *big.Int) (*types.Header, error)
	HeaderByHash(bCtx.Ctx, int32, common.Hash) (*types.Header, error)
	TransactionByHash(bCtx.Ctx, int32, common.Hash) (*types.Transaction, bool, error)
	// TraceTransaction runs the call tracer over an already mined
	// transaction. Needs an archive node, so it falls back to the
	// archive client set.
	TraceTransaction(bCtx.Ctx, int32, common.Hash) (*CallFrame, error)
}

type clientImpl struct {
	clients        map[int32]*ethclient.Client
	rpcClients     map[int32]*rpc.Client
	archiveClients map[int32]*ethclient.Client
	archiveRpcs    map[int32]*rpc.Client
}

func NewClient(ctx bCtx.Ctx, cfg *ClientCfg) (Client, error) {
	var anyerr error
	clients := make(map[int32]*ethclient.Client)
	rpcClients := make(map[int32]*rpc.Client)
	for chainId, url := range cfg.RpcUrls {
		rpcCli, err := rpc.DialContext(ctx, url)
		if err != nil {
			anyerr = err
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"url":     url,
			}).Warn("failed to dial rpc")
			// soft warning, still let the server start
			continue
		}
		rpcClients[chainId] = rpcCli
		clients[chainId] = ethclient.NewClient(rpcCli)
	}
	archiveClients := make(map[int32]*ethclient.Client)
	archiveRpcs := make(map[int32]*rpc.Client)
	for chainId, url := range cfg.ArchiveRpcUrls {
		rpcCli, err := rpc.DialContext(ctx, url)
		if err != nil {
			anyerr = err
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"url":     url,
			}).Warn("failed to dial rpc")
			// soft warning, still let the server start
			continue
		}
		archiveRpcs[chainId] = rpcCli
		archiveClients[chainId] = ethclient.NewClient(rpcCli)
	}
	return &clientImpl{
		clients:        clients,
		rpcClients:     rpcClients,
		archiveClients: archiveClients,
		archiveRpcs:    archiveRpcs,
	}, anyerr
}

func (c *clientImpl) getClient(chainId int32, archive bool) (*ethclient.Client, error) {
	var client *ethclient.Client
	var ok bool
	if archive {
		client, ok = c.archiveClients[chainId]
	} else {
		client, ok = c.clients[chainId]
	}
	if !ok {
		return nil, ErrUnsupportedChain
	}
	return client, nil
}

func (c *clientImpl) Call(ctx bCtx.Ctx, chainId int32, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	client, err := c.getClient(chainId, blk != nil)
	if err != nil {
		return nil, err
	}

	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return nil, err
	}
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	res, err := client.CallContract(ctx, msg, blk)
	if err != nil {
		ctx.WithField("err", err).Error("client.CallContract failed")
		return nil, err
	}
	unpacked, err := _abi.Unpack(method, res)
	if err != nil {
		ctx.WithField("err", err).Error("abi.Unpack failed")
		return nil, err
	}
	return unpacked, nil
}

func (c *clientImpl) FilterLogs(ctx bCtx.Ctx, chainId int32, q ethereum.FilterQuery) ([]types.Log, error) {
	client, err := c.getClient(chainId, false)
	if err != nil {
		return nil, err
	}
	return client.FilterLogs(ctx, q)
}

func (c *clientImpl) HeaderByNumber(ctx bCtx.Ctx, chainId int32, number *big.Int) (*types.Header, error) {
	client, err := c.getClient(chainId, false)
	if err != nil {
		return nil, err
	}
	return client.HeaderByNumber(ctx, number)
}

func (c *clientImpl) HeaderByHash(ctx bCtx.Ctx, chainId int32, hash common.Hash) (*types.Header, error) {
	client, err := c.getClient(chainId, false)
	if err != nil {
		return nil, err
	}
	return client.HeaderByHash(ctx, hash)
}

func (c *clientImpl) TransactionByHash(ctx bCtx.Ctx, chainId int32, hash common.Hash) (*types.Transaction, bool, error) {
	client, err := c.getClient(chainId, false)
	if err != nil {
		return nil, false, err
	}
	return client.TransactionByHash(ctx, hash)
}

func (c *clientImpl) TraceTransaction(ctx bCtx.Ctx, chainId int32, hash common.Hash) (*CallFrame, error) {
	rpcCli, ok := c.archiveRpcs[chainId]
	if !ok {
		rpcCli, ok = c.rpcClients[chainId]
	}
	if !ok {
		return nil, ErrUnsupportedChain
	}

	var frame CallFrame
	err := rpcCli.CallContext(ctx, &frame, "debug_traceTransaction", hash, map[string]interface{}{
		"tracer": "callTracer",
	})
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":    err,
			"txHash": hash.Hex(),
		}).Error("debug_traceTransaction failed")
		return nil, err
	}
	return &frame, nil
}
