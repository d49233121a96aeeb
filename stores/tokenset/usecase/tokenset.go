package usecase

import (
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/base/metrics"
	"github.com/floorbook/goapi/domain/tokenset"
)

type UseCaseCfg struct {
	TokenSetRepo tokenset.Repo
}

type impl struct {
	tokenSet tokenset.Repo
	met      metrics.Service
}

func New(cfg *UseCaseCfg) tokenset.UseCase {
	return &impl{
		tokenSet: cfg.TokenSetRepo,
		met:      metrics.New("tokenset"),
	}
}

func (im *impl) Save(ctx ctx.Ctx, tokenSets []*tokenset.TokenSet) ([]*tokenset.TokenSet, error) {
	valid := make([]*tokenset.TokenSet, 0, len(tokenSets))
	for _, ts := range tokenSets {
		if err := ts.Validate(); err != nil {
			// a malformed set must not block the rest of the batch
			im.met.BumpSum("save.invalid", 1, "kind", string(ts.Kind))
			ctx.WithFields(log.Fields{"err": err, "id": ts.Id}).Warn("skipping malformed token set")
			continue
		}
		if ts.CreatedAt.IsZero() {
			ts.CreatedAt = time.Now().UTC()
		}
		if err := im.tokenSet.Upsert(ctx, ts); err != nil {
			return nil, err
		}
		valid = append(valid, ts)
	}
	return valid, nil
}

func (im *impl) Get(ctx ctx.Ctx, id tokenset.Id) (*tokenset.TokenSet, error) {
	return im.tokenSet.FindOne(ctx, id)
}
