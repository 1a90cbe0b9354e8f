package poll

import (
	"go.uber.org/zap"

	"jobradar/internal/config"
	"jobradar/internal/scrape/careers"
	"jobradar/internal/scrape/greenhouse"
	"jobradar/internal/scrape/lever"
	"jobradar/internal/scrape/smartrecruiters"
	"jobradar/internal/scrape/types"
	"jobradar/internal/scrape/util"
)

// Adapters builds one adapter per family. They share a per-host limiter so
// parallel fetches against one ATS stay polite.
func Adapters(src config.Sources, log *zap.Logger) map[string]types.Adapter {
	opts := types.Options{
		UserAgent:        src.UserAgent,
		Timeout:          src.Timeout(),
		DescriptionChars: src.DescriptionChars,
		Limiter:          util.NewHostLimiter(src.HostRPS, 2),
		Logger:           log,
	}

	list := []types.Adapter{
		greenhouse.New(opts),
		lever.New(opts),
		smartrecruiters.New(opts),
		careers.New(opts),
	}
	out := make(map[string]types.Adapter, len(list))
	for _, a := range list {
		out[a.Name()] = a
	}
	return out
}
