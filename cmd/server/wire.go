package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/programme-lv/contests/codestore"
	"github.com/programme-lv/contests/conf"
	"github.com/programme-lv/contests/contest/contestsrvc"
	"github.com/programme-lv/contests/contest/ddbrepo"
	"github.com/programme-lv/contests/contest/memrepo"
	"github.com/programme-lv/contests/contest/redisrepo"
	"github.com/programme-lv/contests/judge"
	"github.com/programme-lv/contests/logger"
	"github.com/programme-lv/contests/problem"
	"github.com/programme-lv/contests/problem/pgcatalog"
	"github.com/programme-lv/contests/s3bucket"
	"github.com/redis/go-redis/v9"
)

type application struct {
	contestSrvc *contestsrvc.ContestSrvc
}

// wire builds the configured stores and collaborators using ctx. Background
// workers register with wg and stop when workerCtx is cancelled.
func wire(ctx, workerCtx context.Context, cfg conf.Config, wg *sync.WaitGroup) (*application, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*application, func(), error) {
		cleanup()
		return nil, func() {}, err
	}

	awsConfig := sync.OnceValues(func() (aws.Config, error) {
		return conf.LoadAwsConfig(ctx, cfg.AwsRegion)
	})

	var (
		contests contestsrvc.ContestRepo
		subms    contestsrvc.SubmRepo
	)
	switch cfg.ContestStore {
	case "dynamodb":
		awsCfg, err := awsConfig()
		if err != nil {
			return fail(err)
		}
		client := dynamodb.NewFromConfig(awsCfg)
		contests = ddbrepo.NewDynamoDbContestTable(client, cfg.DdbContestTable)
		subms = ddbrepo.NewDynamoDbSubmTable(client, cfg.DdbSubmTable)
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		closers = append(closers, func() { rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fail(fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err))
		}
		contests = redisrepo.NewRedisContestRepo(rdb, cfg.RedisPrefix)
		subms = redisrepo.NewRedisSubmRepo(rdb, cfg.RedisPrefix)
	default:
		contests = memrepo.NewInMemContestRepo()
		subms = memrepo.NewInMemSubmRepo()
	}

	var catalog problem.Catalog
	switch cfg.Catalog {
	case "postgres":
		awsCfg, err := awsConfig()
		if err != nil {
			return fail(err)
		}
		connStr, err := conf.GetPgConnStrFromEnv(ctx, secretsmanager.NewFromConfig(awsCfg))
		if err != nil {
			return fail(err)
		}
		pool, err := pgxpool.New(ctx, connStr)
		if err != nil {
			return fail(fmt.Errorf("failed to create postgres pool: %w", err))
		}
		closers = append(closers, pool.Close)
		catalog = pgcatalog.NewPgCatalog(pool)
	default:
		seeded := problem.NewInMemCatalog()
		for _, p := range cfg.Problems {
			seeded.Add(problem.Problem{ID: p.ID, FullName: p.FullName, MaxPoints: p.MaxPoints})
		}
		catalog = seeded
	}
	catalog = problem.NewCachedCatalog(catalog, cfg.CatalogCacheTTL.Duration)

	var evaluator contestsrvc.JudgeFacade = judge.FixedScoreJudge{Score: cfg.JudgeFixedScore}
	if cfg.Judge == "sqs" {
		awsCfg, err := awsConfig()
		if err != nil {
			return fail(err)
		}
		sqsJudge := judge.NewSqsJudge(sqs.NewFromConfig(awsCfg),
			cfg.JudgeSqsReqUrl, cfg.JudgeSqsRespUrl, cfg.JudgeTimeout.Duration)
		wg.Add(1)
		go func() {
			defer wg.Done()
			sqsJudge.Run(logger.With(workerCtx, "worker", "sqs_judge"))
		}()
		evaluator = sqsJudge
	}

	opts := []contestsrvc.Option{
		contestsrvc.WithRetry(cfg.ContestRetryLimit, contestsrvc.DefaultRetryBackoff),
	}
	if cfg.CodeBucket != "" {
		awsCfg, err := awsConfig()
		if err != nil {
			return fail(err)
		}
		opts = append(opts, contestsrvc.WithCodeStore(
			codestore.NewCodeStore(s3bucket.NewS3Bucket(awsCfg, cfg.CodeBucket))))
	}

	slog.Info("wired components",
		"contest_store", cfg.ContestStore,
		"catalog", cfg.Catalog,
		"judge", cfg.Judge,
		"code_bucket", cfg.CodeBucket)

	return &application{
		contestSrvc: contestsrvc.NewContestSrvc(contests, subms, catalog, evaluator, opts...),
	}, cleanup, nil
}
