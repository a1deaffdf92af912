package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/samber/oops"
	"go.uber.org/zap"

	adapthttp "blogpessoal/internal/adapter/http"
	"blogpessoal/internal/adapter/memory"
	"blogpessoal/internal/adapter/postgres"
	"blogpessoal/internal/adapter/redis"
	"blogpessoal/internal/app"
	"blogpessoal/internal/auth"
	"blogpessoal/internal/config"
	"blogpessoal/internal/domain"
)

// deps is the wired application.
type deps struct {
	handler http.Handler
	closers []io.Closer
}

func (d *deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i].Close())
	}
	return errors.Join(errs...)
}

// buildDeps opens the stores and wires services into the HTTP server.
// Background jobs stop when ctx is cancelled.
func buildDeps(ctx context.Context, cfg *config.Config, log *zap.Logger) (*deps, error) {
	d := &deps{}
	fail := func(err error) (*deps, error) {
		_ = d.Close()
		return nil, err
	}

	var (
		users domain.UserRepository
		posts domain.PostRepository
		mem   *memory.DB
	)
	switch cfg.Database.Driver {
	case "memory":
		mem = memory.New()
		users = mem.NewUserRepo()
		posts = mem.NewPostRepo()
		log.Warn("using in-memory storage, data is lost on restart")
	default:
		db, err := postgres.Open(cfg.Database.URL, postgres.Options{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			AutoMigrate:     cfg.Database.AutoMigrate,
		})
		if err != nil {
			return fail(err)
		}
		d.closers = append(d.closers, db)
		users = postgres.NewUserRepo(db)
		posts = postgres.NewPostRepo(db)
	}

	var denylist domain.TokenDenylist
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Dial(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fail(err)
		}
		d.closers = append(d.closers, rdb)
		denylist = redis.NewDenylist(rdb)
	} else {
		if mem == nil {
			mem = memory.New()
		}
		local := mem.NewDenylist()
		go purgeRevoked(ctx, local, time.Minute, log)
		denylist = local
	}

	tokens, err := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	if err != nil {
		return fail(oops.Code("CONFIG_INVALID").Wrap(err))
	}

	userSvc := app.NewUserService(users)
	postSvc := app.NewPostService(posts)
	authSvc := app.NewAuthService(users, tokens, denylist)

	if cfg.Bootstrap.Email != "" {
		err := userSvc.CreateInitialUser(ctx, cfg.Bootstrap.Name, cfg.Bootstrap.Email, cfg.Bootstrap.Password)
		switch {
		case errors.Is(err, app.ErrUsersExist):
			log.Debug("bootstrap skipped, users already exist")
		case err != nil:
			return fail(oops.Code("BOOTSTRAP_FAILED").With("email", cfg.Bootstrap.Email).Wrap(err))
		default:
			log.Info("bootstrap user created", zap.String("email", cfg.Bootstrap.Email))
		}
	}

	srv := adapthttp.New(userSvc, postSvc, authSvc, log).
		WithMetrics(adapthttp.NewMetrics("blogpessoal"))

	if cfg.RateLimit.LoginRPS > 0 && cfg.RateLimit.LoginBurst > 0 {
		limiter := adapthttp.NewRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)
		limiter.StartJanitor(ctx)
		srv.WithLoginLimiter(limiter)
	}

	if cfg.OIDC.Enabled {
		oidcCfg, err := adapthttp.NewOIDCConfig(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
		if err != nil {
			return fail(oops.Code("OIDC_DISCOVERY_FAILED").With("issuer", cfg.OIDC.Issuer).Wrap(err))
		}
		srv.WithOIDC(oidcCfg)
	}

	d.handler = srv.Handler()
	return d, nil
}

func purgeRevoked(ctx context.Context, dl *memory.Denylist, every time.Duration, log *zap.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := dl.DeleteExpired(ctx); err != nil {
				log.Warn("purge revoked tokens", zap.Error(err))
			}
		}
	}
}
