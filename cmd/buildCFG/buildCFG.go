package buildCFG

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"github.com/berryray-tech/Berry-Ray-main/internal/auth"
	"github.com/berryray-tech/Berry-Ray-main/internal/flow"
	"github.com/berryray-tech/Berry-Ray-main/internal/mailer"
	"github.com/berryray-tech/Berry-Ray-main/internal/registration"
	"github.com/berryray-tech/Berry-Ray-main/internal/storage"
)

// Getter is the part of the wbf config the builders read from.
type Getter interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetDuration(key string) time.Duration
}

type ServerConfig struct {
	Port            string
	Mode            string
	AllowOrigins    []string
	ShutdownTimeout time.Duration
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

func (c RabbitConfig) Enabled() bool { return c.Url != "" }

type StorageConfig struct {
	Driver string
	Bucket string
	Minio  storage.MinioConfig
}

type AuthConfig struct {
	auth.Config
	// ForceSignOut signs out sessions whose user is not an admin.
	ForceSignOut bool
}

type FlowConfig struct {
	DraftTTL      time.Duration
	MigrationsDir string
}

func BuildServerConfig(cfg Getter, log *zerolog.Logger) ServerConfig {
	sc := ServerConfig{
		Port:            cfg.GetString("server.port"),
		Mode:            cfg.GetString("server.mode"),
		AllowOrigins:    splitList(cfg.GetString("server.allow_origins")),
		ShutdownTimeout: cfg.GetDuration("server.shutdown_timeout"),
	}
	if sc.Port == "" {
		sc.Port = "8080"
		log.Warn().Msg("server.port not set, using 8080")
	}
	if sc.Mode == "" {
		sc.Mode = "release"
	}
	if sc.ShutdownTimeout <= 0 {
		sc.ShutdownTimeout = 10 * time.Second
	}
	return sc
}

func BuildDBConfig(cfg Getter, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	master := cfg.GetString("db.master_dsn")
	if master == "" {
		return "", nil, nil, fmt.Errorf("db.master_dsn is required")
	}
	slaves := splitList(cfg.GetString("db.slave_dsns"))

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("db.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("db.max_idle_conns"),
		ConnMaxLifetime: cfg.GetDuration("db.conn_max_lifetime"),
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = 30 * time.Minute
	}

	log.Info().Int("slaves", len(slaves)).Int("max_open_conns", opts.MaxOpenConns).Msg("db config loaded")
	return master, slaves, opts, nil
}

// BuildRabbitConfig returns a disabled config when rabbit.url is empty.
func BuildRabbitConfig(cfg Getter, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if !rc.Enabled() {
		log.Warn().Msg("rabbit.url not set, registration notifications disabled")
		return rc, nil
	}
	if rc.Exchange == "" {
		rc.Exchange = "registrations"
	}
	if rc.Queue == "" {
		rc.Queue = "registration-emails"
	}
	return rc, nil
}

func BuildStorageConfig(cfg Getter, log *zerolog.Logger) (StorageConfig, error) {
	sc := StorageConfig{
		Driver: strings.ToLower(cfg.GetString("storage.driver")),
		Bucket: cfg.GetString("storage.bucket"),
		Minio: storage.MinioConfig{
			Endpoint:      cfg.GetString("storage.endpoint"),
			AccessKey:     cfg.GetString("storage.access_key"),
			SecretKey:     cfg.GetString("storage.secret_key"),
			Region:        cfg.GetString("storage.region"),
			UseSSL:        cfg.GetBool("storage.use_ssl"),
			PublicBaseURL: cfg.GetString("storage.public_base_url"),
		},
	}
	if sc.Driver == "" {
		sc.Driver = "minio"
	}
	if sc.Bucket == "" {
		sc.Bucket = registration.DefaultBucket
	}

	switch sc.Driver {
	case "minio":
		if sc.Minio.Endpoint == "" {
			return sc, fmt.Errorf("storage.endpoint is required for the minio driver")
		}
	case "memory":
		log.Warn().Msg("using in-memory object storage, uploads are lost on restart")
	default:
		return sc, fmt.Errorf("unknown storage driver %q", sc.Driver)
	}
	return sc, nil
}

func BuildAuthConfig(cfg Getter, log *zerolog.Logger) (AuthConfig, error) {
	secret := cfg.GetString("auth.jwt_secret")
	if secret == "" {
		return AuthConfig{}, fmt.Errorf("auth.jwt_secret is required")
	}
	ac := auth.Config{
		Secret:     []byte(secret),
		Issuer:     cfg.GetString("auth.issuer"),
		SessionTTL: cfg.GetDuration("auth.session_ttl"),
		BcryptCost: cfg.GetInt("auth.bcrypt_cost"),
	}
	if ac.Issuer == "" {
		ac.Issuer = "berry-ray"
	}
	if ac.SessionTTL <= 0 {
		ac.SessionTTL = auth.DefaultSessionTTL
	}
	forceSignOut := cfg.GetBool("auth.force_sign_out")
	log.Info().Dur("session_ttl", ac.SessionTTL).Bool("force_sign_out", forceSignOut).Msg("auth config loaded")
	return AuthConfig{Config: ac, ForceSignOut: forceSignOut}, nil
}

func BuildMailConfig(cfg Getter, log *zerolog.Logger) mailer.Config {
	mc := mailer.Config{
		Host:     cfg.GetString("mail.host"),
		Port:     cfg.GetInt("mail.port"),
		Username: cfg.GetString("mail.username"),
		Password: cfg.GetString("mail.password"),
		From:     cfg.GetString("mail.from"),
	}
	if mc.Host == "" {
		log.Warn().Msg("mail.host not set, registration emails disabled")
	}
	return mc
}

func BuildFlowConfig(cfg Getter) FlowConfig {
	fc := FlowConfig{
		DraftTTL:      cfg.GetDuration("flow.draft_ttl"),
		MigrationsDir: cfg.GetString("db.migrations_dir"),
	}
	if fc.DraftTTL <= 0 {
		fc.DraftTTL = flow.DefaultIdleTTL
	}
	if fc.MigrationsDir == "" {
		fc.MigrationsDir = "migrations/postgres"
	}
	return fc
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
