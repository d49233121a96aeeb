package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/database/mongoclient"
	"github.com/floorbook/goapi/base/database/redisclient"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/base/metrics"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/exchange"
	"github.com/floorbook/goapi/domain/jobqueue"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/orderupdate"
	"github.com/floorbook/goapi/service/cache"
	"github.com/floorbook/goapi/service/cache/provider/primitive"
	"github.com/floorbook/goapi/service/chain"
	"github.com/floorbook/goapi/service/coingecko"
	jobqueue_service "github.com/floorbook/goapi/service/jobqueue"
	"github.com/floorbook/goapi/service/query"
	"github.com/floorbook/goapi/service/redis"
	activity_repository "github.com/floorbook/goapi/stores/activity/repository"
	balance_repository "github.com/floorbook/goapi/stores/balance/repository"
	balance_usecase "github.com/floorbook/goapi/stores/balance/usecase"
	currency_repository "github.com/floorbook/goapi/stores/currency/repository"
	currency_usecase "github.com/floorbook/goapi/stores/currency/usecase"
	"github.com/floorbook/goapi/stores/events"
	fill_repository "github.com/floorbook/goapi/stores/fill/repository"
	fill_usecase "github.com/floorbook/goapi/stores/fill/usecase"
	order_repository "github.com/floorbook/goapi/stores/order/repository"
	order_usecase "github.com/floorbook/goapi/stores/order/usecase"
	"github.com/floorbook/goapi/stores/orderbook/common"
	"github.com/floorbook/goapi/stores/orderbook/element"
	"github.com/floorbook/goapi/stores/orderbook/looksrarev2"
	"github.com/floorbook/goapi/stores/orderbook/manifold"
	"github.com/floorbook/goapi/stores/orderbook/rarible"
	"github.com/floorbook/goapi/stores/orderbook/seaport"
	"github.com/floorbook/goapi/stores/orderbook/sudoswapv2"
	"github.com/floorbook/goapi/stores/orderbook/universe"
	"github.com/floorbook/goapi/stores/orderbook/x2y2"
	"github.com/floorbook/goapi/stores/orderbook/zeroexv4"
	orderevent_repository "github.com/floorbook/goapi/stores/orderevent/repository"
	orderupdate_usecase "github.com/floorbook/goapi/stores/orderupdate/usecase"
	price_repository "github.com/floorbook/goapi/stores/price/repository"
	price_usecase "github.com/floorbook/goapi/stores/price/usecase"
	royalties_repository "github.com/floorbook/goapi/stores/royalties/repository"
	royalties_usecase "github.com/floorbook/goapi/stores/royalties/usecase"
	source_repository "github.com/floorbook/goapi/stores/source/repository"
	source_usecase "github.com/floorbook/goapi/stores/source/usecase"
	token_repository "github.com/floorbook/goapi/stores/token/repository"
	token_usecase "github.com/floorbook/goapi/stores/token/usecase"
	tokenset_repository "github.com/floorbook/goapi/stores/tokenset/repository"
	tokenset_usecase "github.com/floorbook/goapi/stores/tokenset/usecase"
	tracker_repository "github.com/floorbook/goapi/stores/tracker/repository"
)

const (
	expirySweepBatch = 500
	expirySweepEvery = time.Minute
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}
}

func newCache(pfx string, ttl time.Duration, sizeMb int) cache.Service {
	return cache.New(cache.ServiceConfig{
		Ttl:   ttl,
		Pfx:   pfx,
		Cache: primitive.NewPrimitive(pfx, sizeMb),
	})
}

func main() {
	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init redis backed job queue
	context.Info("init redis")
	redisURI := viper.GetString("redis.uri")
	redisPwd := viper.GetString("redis.password")
	redisPoolMultiplier := viper.GetFloat64("redis.poolMultiplier")
	redisPool := redisclient.MustConnectRedis(redisURI, redisPwd, redisclient.RedisParam{
		PoolMultiplier: redisPoolMultiplier,
		Retry:          true,
	})
	redisService := redis.New("redis", metrics.New("redis"), redisPool)
	jobQueue := jobqueue_service.New(&jobqueue_service.ServiceCfg{Redis: redisService})

	// init chain service
	networks := viper.Sub("networks")
	rpcs := make(map[int32]string)
	archiveRpcs := make(map[int32]string)
	chainIds := []domain.ChainId{}
	for k := range networks.AllSettings() {
		chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
		rpcs[chainId] = networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
		archiveRpcs[chainId] = networks.GetString(fmt.Sprintf("%s.archiveRpcUrl", k))
		chainIds = append(chainIds, domain.ChainId(chainId))
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls:        rpcs,
		ArchiveRpcUrls: archiveRpcs,
	})
	if err != nil {
		context.WithField("err", err).Warn("chainService started with error")
	}
	ercService := chain.NewErc(chainService)

	coinGecko := coingecko.NewClient(&coingecko.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    10 * time.Second,
	})

	// construct repositories
	orderRepo := order_repository.NewRepo(q)
	tokenSetRepo := tokenset_repository.NewRepo(q)
	tokenRepo := token_repository.NewRepo(q)
	currencyRepo := currency_repository.NewRepo(q)
	priceRepo := price_repository.NewRepo(q)
	royaltiesRepo := royalties_repository.NewRepo(q)
	sourceRepo := source_repository.NewRepo(q)
	fillRepo := fill_repository.NewRepo(q)
	balanceRepo := balance_repository.NewRepo(q)
	activityRepo := activity_repository.NewRepo(q)
	orderEventRepo := orderevent_repository.NewRepo(q)
	trackerRepo := tracker_repository.New(q)

	// construct usecases
	tokenSet := tokenset_usecase.New(&tokenset_usecase.UseCaseCfg{TokenSetRepo: tokenSetRepo})
	currency := currency_usecase.New(&currency_usecase.UseCaseCfg{
		CurrencyRepo: currencyRepo,
		Erc:          ercService,
		Cache:        newCache("currency", 10*time.Minute, 4),
	})
	price := price_usecase.New(&price_usecase.UseCaseCfg{
		PriceRepo: priceRepo,
		Currency:  currency,
		CoinGecko: coinGecko,
		Cache:     newCache("price", time.Minute, 8),
	})
	royalties := royalties_usecase.New(&royalties_usecase.UseCaseCfg{
		RoyaltiesRepo: royaltiesRepo,
		Cache:         newCache("royalties", 10*time.Minute, 4),
	})
	source := source_usecase.New(&source_usecase.UseCaseCfg{SourceRepo: sourceRepo})
	token := token_usecase.New(&token_usecase.UseCaseCfg{
		TokenRepo: tokenRepo,
		OrderRepo: orderRepo,
		TokenSet:  tokenSet,
		Erc:       ercService,
		Cache:     newCache("token", 10*time.Minute, 8),
	})
	balance := balance_usecase.New(&balance_usecase.UseCaseCfg{
		BalanceRepo: balanceRepo,
		Erc:         ercService,
		Cache:       newCache("balance", time.Minute, 16),
	})

	filtered := []domain.Address{}
	for _, addr := range viper.GetStringSlice("orderbook.filteredContracts") {
		filtered = append(filtered, domain.Address(addr))
	}
	engine := common.NewEngine(&common.EngineCfg{
		OrderRepo:   orderRepo,
		TokenSet:    tokenSet,
		Token:       token,
		Royalties:   royalties,
		Price:       price,
		Currency:    currency,
		Source:      source,
		OrderUpdate: orderupdate_usecase.NewPublisher(jobQueue),
		Balance:     balance,
		Adapters: []common.Adapter{
			seaport.NewAdapter(chainService),
			x2y2.NewAdapter(),
			looksrarev2.NewAdapter(chainService),
			zeroexv4.NewAdapter(),
			element.NewAdapter(),
			rarible.NewAdapter(chainService),
			universe.NewAdapter(chainService),
			manifold.NewAdapter(),
			sudoswapv2.NewAdapter(),
		},
		FilteredContracts: filtered,
	})

	orderUpdate := orderupdate_usecase.New(&orderupdate_usecase.UseCaseCfg{
		OrderRepo:      orderRepo,
		OrderEventRepo: orderEventRepo,
		ActivityRepo:   activityRepo,
		TokenSet:       tokenSet,
		Token:          token,
		Currency:       currency,
		Revalidator:    engine,
		JobQueue:       jobQueue,
	})
	fillPostProcessor := fill_usecase.NewPostProcessor(&fill_usecase.PostProcessorCfg{
		ActivityRepo: activityRepo,
		TokenRepo:    tokenRepo,
	})
	sweeper := order_usecase.NewExpirySweeper(&order_usecase.SweeperCfg{
		OrderRepo:   orderRepo,
		OrderUpdate: orderUpdate,
	})

	processor := events.NewProcessor(&events.ProcessorCfg{
		FillRepo:     fillRepo,
		OrderRepo:    orderRepo,
		ActivityRepo: activityRepo,
		BalanceRepo:  balanceRepo,
		Source:       source,
		Price:        price,
		OrderUpdate:  orderupdate_usecase.NewPublisher(jobQueue),
		JobQueue:     jobQueue,
		Handlers: []exchange.Handler{
			events.NewErc20Handler(),
			events.NewErc721Handler(),
			events.NewErc1155Handler(),
			events.NewSeaportHandler(),
			events.NewX2Y2Handler(),
			events.NewLooksRareHandler(),
			events.NewZeroExV4Handler(orderRepo),
			events.NewElementHandler(orderRepo),
			events.NewRaribleHandler(orderRepo),
			events.NewUniverseHandler(orderRepo),
			events.NewManifoldHandler(orderRepo, chainService),
			events.NewSudoswapHandler(orderRepo, chainService),
			events.NewWyvernHandler(orderRepo),
		},
	})

	// queue consumers
	jobQueue.Subscribe(jobqueue.QueueOrderUpdatesById, func(c ctx.Ctx, payload []byte) error {
		p := &orderupdate.Payload{}
		if err := json.Unmarshal(payload, p); err != nil {
			c.WithField("err", err).Error("bad order update payload")
			return nil
		}
		return orderUpdate.ProcessById(c, p)
	})
	jobQueue.Subscribe(jobqueue.QueueOrderbookOrders, func(c ctx.Ctx, payload []byte) error {
		info := &order.Info{}
		if err := json.Unmarshal(payload, info); err != nil {
			c.WithField("err", err).Error("bad orderbook order payload")
			return nil
		}
		_, err := engine.Save(c, []*order.Info{info})
		return err
	})
	jobQueue.Subscribe(jobqueue.QueueFillPostProcess, func(c ctx.Ctx, payload []byte) error {
		info := &exchange.FillInfo{}
		if err := json.Unmarshal(payload, info); err != nil {
			c.WithField("err", err).Error("bad fill info payload")
			return nil
		}
		return fillPostProcessor.ProcessFillInfo(c, info)
	})
	jobQueue.Subscribe(jobqueue.QueueExpiredOrders, func(c ctx.Ctx, payload []byte) error {
		if _, err := sweeper.SweepExpired(c, expirySweepBatch); err != nil {
			c.WithField("err", err).Error("expiry sweep failed")
		}
		// reschedule, the expiry sweep is a perpetual delayed job
		return jobQueue.Publish(c, &jobqueue.Job{
			Queue: jobqueue.QueueExpiredOrders,
			Delay: expirySweepEvery,
		})
	})

	runCtx, cancel := ctx.WithCancel(context)

	// seed the perpetual expiry sweep
	if err := jobQueue.Publish(runCtx, &jobqueue.Job{Queue: jobqueue.QueueExpiredOrders}); err != nil {
		context.WithField("err", err).Error("seeding expiry sweep failed")
	}

	// chain syncers
	backfillCutoff := viper.GetUint64("syncer.backfillCutoff")
	pollInterval := viper.GetDuration("syncer.pollInterval")
	for _, chainId := range chainIds {
		syncer := events.NewSyncer(&events.SyncerCfg{
			ChainId:        chainId,
			ChainClient:    chainService,
			Processor:      processor,
			TrackerState:   trackerRepo,
			PollInterval:   pollInterval,
			BackfillCutoff: backfillCutoff,
		})
		go func() {
			if err := syncer.Run(runCtx); err != nil {
				log.Log().WithField("err", err).Info("syncer stopped")
			}
		}()
	}

	go func() {
		if err := jobQueue.Run(runCtx); err != nil {
			log.Log().WithField("err", err).Info("job queue stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	cancel()
	jobQueue.Close()
	log.Log().Info("shutdown indexer successfully")
}
