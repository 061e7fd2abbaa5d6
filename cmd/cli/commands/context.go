package commands

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/internal/config"
	"github.com/jakechorley/duty-rota/pkg/clients/gmailclient"
	"github.com/jakechorley/duty-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/duty-rota/pkg/core/services"
	"github.com/jakechorley/duty-rota/pkg/db"
	"github.com/jakechorley/duty-rota/pkg/metrics"
	"github.com/jakechorley/duty-rota/pkg/utils"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env        string
	Cfg        *config.Config
	Database   db.Database
	Controller *services.ScheduleController
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	Ctx        context.Context

	googleOnce   sync.Once
	googleClient *http.Client
	googleErr    error
}

// googleHTTPClient authorises against Google on first use; most commands never need it
func (a *AppContext) googleHTTPClient() (*http.Client, error) {
	a.googleOnce.Do(func() {
		a.Logger.Info("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(a.Env)
		if err != nil {
			a.googleErr = fmt.Errorf("failed to load OAuth client config: %w", err)
			return
		}
		oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
		if err != nil {
			a.googleErr = err
			return
		}
		store, err := utils.DefaultTokenStore()
		if err != nil {
			a.googleErr = err
			return
		}
		a.googleClient, a.googleErr = utils.NewAuthenticator(oauthConfig, store, a.Env, a.Logger).HTTPClient(a.Ctx)
	})
	return a.googleClient, a.googleErr
}

// SheetsClient creates an authorised Sheets client
func (a *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	httpClient, err := a.googleHTTPClient()
	if err != nil {
		return nil, err
	}
	return sheetsclient.NewClient(a.Ctx, httpClient)
}

// GmailClient creates an authorised Gmail client
func (a *AppContext) GmailClient() (*gmailclient.Client, error) {
	httpClient, err := a.googleHTTPClient()
	if err != nil {
		return nil, err
	}
	return gmailclient.NewClient(a.Ctx, httpClient, a.Cfg.GmailUserID, a.Cfg.GmailSender)
}
