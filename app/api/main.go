package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/database/mongoclient"
	"github.com/floorbook/goapi/base/database/redisclient"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/base/metrics"
	bValidator "github.com/floorbook/goapi/base/validator"
	"github.com/floorbook/goapi/domain"
	mmiddleware "github.com/floorbook/goapi/middleware"
	"github.com/floorbook/goapi/service/cache"
	"github.com/floorbook/goapi/service/cache/provider/primitive"
	"github.com/floorbook/goapi/service/chain"
	"github.com/floorbook/goapi/service/coingecko"
	jobqueue_service "github.com/floorbook/goapi/service/jobqueue"
	"github.com/floorbook/goapi/service/query"
	"github.com/floorbook/goapi/service/redis"
	balance_repository "github.com/floorbook/goapi/stores/balance/repository"
	balance_usecase "github.com/floorbook/goapi/stores/balance/usecase"
	currency_repository "github.com/floorbook/goapi/stores/currency/repository"
	currency_usecase "github.com/floorbook/goapi/stores/currency/usecase"
	fill_delivery "github.com/floorbook/goapi/stores/fill/delivery/http"
	fill_repository "github.com/floorbook/goapi/stores/fill/repository"
	order_delivery "github.com/floorbook/goapi/stores/order/delivery/http"
	order_repository "github.com/floorbook/goapi/stores/order/repository"
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
	orderupdate_usecase "github.com/floorbook/goapi/stores/orderupdate/usecase"
	price_repository "github.com/floorbook/goapi/stores/price/repository"
	price_usecase "github.com/floorbook/goapi/stores/price/usecase"
	royalties_repository "github.com/floorbook/goapi/stores/royalties/repository"
	royalties_usecase "github.com/floorbook/goapi/stores/royalties/usecase"
	source_repository "github.com/floorbook/goapi/stores/source/repository"
	source_usecase "github.com/floorbook/goapi/stores/source/usecase"
	token_delivery "github.com/floorbook/goapi/stores/token/delivery/http"
	token_repository "github.com/floorbook/goapi/stores/token/repository"
	token_usecase "github.com/floorbook/goapi/stores/token/usecase"
	tokenset_repository "github.com/floorbook/goapi/stores/tokenset/repository"
	tokenset_usecase "github.com/floorbook/goapi/stores/tokenset/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
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
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

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
	for k := range networks.AllSettings() {
		chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
		rpcs[chainId] = networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
		archiveRpcs[chainId] = networks.GetString(fmt.Sprintf("%s.archiveRpcUrl", k))
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

	// construct repository, usecase and delivery
	orderRepo := order_repository.NewRepo(q)
	tokenSetRepo := tokenset_repository.NewRepo(q)
	tokenRepo := token_repository.NewRepo(q)
	currencyRepo := currency_repository.NewRepo(q)
	priceRepo := price_repository.NewRepo(q)
	royaltiesRepo := royalties_repository.NewRepo(q)
	sourceRepo := source_repository.NewRepo(q)
	fillRepo := fill_repository.NewRepo(q)
	balanceRepo := balance_repository.NewRepo(q)

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

	order_delivery.New(e, engine, orderRepo)
	token_delivery.New(e, tokenRepo)
	fill_delivery.New(e, fillRepo)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok"})
	})

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	shutdownCtx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
