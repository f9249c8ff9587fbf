package commands

import (
	"fmt"

	"github.com/jakechorley/cup-volunteers/internal/config"
	"github.com/jakechorley/cup-volunteers/pkg/clients/gmailclient"
	"github.com/jakechorley/cup-volunteers/pkg/clients/resendclient"
	"github.com/jakechorley/cup-volunteers/pkg/clients/sheetsclient"
	"github.com/jakechorley/cup-volunteers/pkg/core/services"
)

type googleClients struct {
	oauthCfg *config.OAuthClientConfig
	sheets   *sheetsclient.Client
	gmail    *gmailclient.Client
}

// SheetsClient authenticates on first use so commands that never touch Google skip the OAuth flow
func (app *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if app.google == nil {
		app.google = &googleClients{}
	}
	if app.google.sheets != nil {
		return app.google.sheets, nil
	}

	if app.google.oauthCfg == nil {
		app.Logger.Info("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
		if err != nil {
			return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
		}
		app.google.oauthCfg = oauthCfg
	}

	app.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(app.Ctx, app.google.oauthCfg, app.Env, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.google.sheets = client
	return client, nil
}

// GmailClient shares the sheets client's OAuth token
func (app *AppContext) GmailClient() (*gmailclient.Client, error) {
	sheets, err := app.SheetsClient()
	if err != nil {
		return nil, err
	}
	if app.google.gmail != nil {
		return app.google.gmail, nil
	}

	app.Logger.Info("Initializing gmail client")
	client, err := gmailclient.NewClient(app.Ctx, app.google.oauthCfg, sheets.Token(), app.Cfg.Roster.GmailSender)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	app.google.gmail = client
	return client, nil
}

// RosterMailer returns the sender selected by roster.mailer
func (app *AppContext) RosterMailer() (services.EmailSender, error) {
	if app.Cfg.Roster.Mailer == "resend" {
		app.Logger.Info("Using resend mailer")
		return resendclient.NewClient(app.Ctx, app.Cfg.Roster.ResendAPIKey, app.Cfg.Roster.ResendFrom), nil
	}
	gmail, err := app.GmailClient()
	if err != nil {
		return nil, err
	}
	return gmail, nil
}
