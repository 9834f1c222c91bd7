package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Duration accepts Go duration strings such as "30s" in TOML files.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// ProblemSeed fills the in-memory problem catalog.
type ProblemSeed struct {
	ID        string `toml:"id" validate:"required"`
	FullName  string `toml:"full_name"`
	MaxPoints int    `toml:"max_points" validate:"gte=0"`
}

type Config struct {
	HttpAddr       string   `toml:"http_addr" validate:"required"`
	JwtKey         string   `toml:"jwt_key" validate:"required"`
	AllowedOrigins []string `toml:"allowed_origins"`
	LogLevel       string   `toml:"log_level" validate:"oneof=debug info warn error"`

	ContestStore      string `toml:"contest_store" validate:"oneof=memory dynamodb redis"`
	ContestRetryLimit int    `toml:"contest_retry_limit" validate:"gte=1"`

	AwsRegion       string `toml:"aws_region"`
	DdbContestTable string `toml:"ddb_contest_table" validate:"required_if=ContestStore dynamodb"`
	DdbSubmTable    string `toml:"ddb_subm_table" validate:"required_if=ContestStore dynamodb"`

	RedisAddr     string `toml:"redis_addr" validate:"required_if=ContestStore redis"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db" validate:"gte=0"`
	RedisPrefix   string `toml:"redis_prefix"`

	Judge           string   `toml:"judge" validate:"oneof=fixed sqs"`
	JudgeFixedScore int      `toml:"judge_fixed_score" validate:"gte=0"`
	JudgeSqsReqUrl  string   `toml:"judge_sqs_req_url" validate:"required_if=Judge sqs"`
	JudgeSqsRespUrl string   `toml:"judge_sqs_resp_url" validate:"required_if=Judge sqs"`
	JudgeTimeout    Duration `toml:"judge_timeout"`

	CodeBucket string `toml:"code_bucket"`

	Catalog         string        `toml:"catalog" validate:"oneof=memory postgres"`
	CatalogCacheTTL Duration      `toml:"catalog_cache_ttl"`
	Problems        []ProblemSeed `toml:"problems" validate:"dive"`
}

func defaults() Config {
	return Config{
		HttpAddr:          ":8080",
		AllowedOrigins:    []string{"http://localhost:3000", "https://programme.lv", "https://www.programme.lv"},
		LogLevel:          "info",
		ContestStore:      "memory",
		ContestRetryLimit: 5,
		AwsRegion:         "eu-central-1",
		RedisPrefix:       "contests:",
		Judge:             "fixed",
		JudgeTimeout:      Duration{30 * time.Second},
		Catalog:           "memory",
		CatalogCacheTTL:   Duration{5 * time.Minute},
	}
}

// Load reads .env when present, then the environment, then the TOML file
// named by CONFIG_FILE. Later sources win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()
	if err := cfg.readEnv(); err != nil {
		return Config{}, err
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) readEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	var errs []error
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *Duration) {
		if v, ok := os.LookupEnv(key); ok {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
			}
		}
	}

	str("HTTP_ADDR", &c.HttpAddr)
	str("JWT_KEY", &c.JwtKey)
	str("LOG_LEVEL", &c.LogLevel)
	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = strings.Split(v, ",")
	}

	str("CONTEST_STORE", &c.ContestStore)
	num("CONTEST_RETRY_LIMIT", &c.ContestRetryLimit)

	str("AWS_REGION", &c.AwsRegion)
	str("DDB_CONTEST_TABLE", &c.DdbContestTable)
	str("DDB_SUBM_TABLE", &c.DdbSubmTable)

	str("REDIS_ADDR", &c.RedisAddr)
	str("REDIS_PASSWORD", &c.RedisPassword)
	num("REDIS_DB", &c.RedisDB)
	str("REDIS_PREFIX", &c.RedisPrefix)

	str("JUDGE", &c.Judge)
	num("JUDGE_FIXED_SCORE", &c.JudgeFixedScore)
	str("JUDGE_SQS_REQ_URL", &c.JudgeSqsReqUrl)
	str("JUDGE_SQS_RESP_URL", &c.JudgeSqsRespUrl)
	dur("JUDGE_TIMEOUT", &c.JudgeTimeout)

	str("CODE_BUCKET", &c.CodeBucket)

	str("CATALOG", &c.Catalog)
	dur("CATALOG_CACHE_TTL", &c.CatalogCacheTTL)

	return errors.Join(errs...)
}
