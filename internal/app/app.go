package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"evcatalog/internal/config"
	"evcatalog/internal/db"
	"evcatalog/internal/http/api"
	"evcatalog/internal/security"
)

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// RunServer boots the catalog API server with database-backed components.
func RunServer(ctx context.Context, cfg config.AppConfig, portOverride int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)

	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	seed, errSeed := config.LoadAdminSeed(configPath)
	if errSeed != nil {
		return errSeed
	}
	if errEnsure := EnsureAdminUser(conn, seed); errEnsure != nil {
		return errEnsure
	}

	jwtCfg, errJWT := config.LoadJWTConfig(configPath)
	if errJWT != nil {
		return errJWT
	}
	if jwtCfg.Secret == "" {
		// Sessions do not survive a restart without a configured secret.
		generated, errGenerate := security.GenerateRandomString(32)
		if errGenerate != nil {
			return fmt.Errorf("generate session secret: %w", errGenerate)
		}
		jwtCfg.Secret = generated
		log.Warn("no jwt secret configured, generated an ephemeral one")
	}
	sessions, errSessions := security.NewSessions(jwtCfg.Secret, jwtCfg.Expiry)
	if errSessions != nil {
		return errSessions
	}

	srvCfg, errSrv := config.LoadServerConfig(configPath)
	if errSrv != nil {
		return errSrv
	}
	if portOverride > 0 {
		srvCfg.Port = portOverride
	}

	if srvCfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	api.RegisterRoutes(engine, conn, sessions, srvCfg)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", srvCfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("catalog server listening on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}
