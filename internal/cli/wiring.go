package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/osvaldoandrade/w3bstitch/internal/app/anchor"
	"github.com/osvaldoandrade/w3bstitch/internal/app/credential"
	"github.com/osvaldoandrade/w3bstitch/internal/app/inspect"
	"github.com/osvaldoandrade/w3bstitch/internal/app/media"
	"github.com/osvaldoandrade/w3bstitch/internal/app/paths"
	"github.com/osvaldoandrade/w3bstitch/internal/app/social"
	"github.com/osvaldoandrade/w3bstitch/internal/app/state"
	"github.com/osvaldoandrade/w3bstitch/internal/app/webpage"
	"github.com/osvaldoandrade/w3bstitch/internal/httpapi"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/canonicaljson"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/evmchain"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/filesystem"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/hash"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/ident"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/schema"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/sqlitereceipts"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/twitter"
	"github.com/osvaldoandrade/w3bstitch/internal/infra/webfetch"
	"github.com/osvaldoandrade/w3bstitch/internal/platform"
)

// services is the composition root shared by the CLI commands and the HTTP
// server.
type services struct {
	httpapi.Services
	receipts *sqlitereceipts.Store
}

func newServices(ctx context.Context, opts *RootOptions) (*services, error) {
	clock := platform.RealClock{}
	ids := ident.NewULIDGenerator(clock)
	canonicalizer := canonicaljson.Canonicalizer{}
	hasher := hash.SHA256{}

	out := &services{}
	var journal anchor.Journal
	var lister anchor.ReceiptLister
	if opts.ReceiptsDB != "" {
		dbPath, err := paths.NormalizeFilePath(opts.ReceiptsDB)
		if err != nil {
			return nil, err
		}
		store, err := sqlitereceipts.Open(dbPath, ids)
		if err != nil {
			return nil, err
		}
		out.receipts = store
		journal = store
		lister = store
	}

	validator, err := credentialValidator(ctx, opts.CredentialSchema)
	if err != nil {
		_ = out.Close()
		return nil, err
	}

	var api social.API
	if opts.TwitterToken != "" {
		client, err := twitter.NewClient(twitter.Config{
			BaseURL:     opts.TwitterBaseURL,
			BearerToken: opts.TwitterToken,
		})
		if err != nil {
			_ = out.Close()
			return nil, err
		}
		api = client
	}

	out.Services = httpapi.Services{
		Anchor: anchor.NewService(
			evmchain.Dialer{HTTPTimeout: opts.RPCTimeout},
			canonicalizer,
			hasher,
			evmchain.Signer{},
			journal,
			clock,
			opts.Chains,
			anchor.Options{
				GasLimit:             opts.GasLimit,
				RequestTimeout:       opts.RPCTimeout,
				SerializeSubmissions: opts.SerializeSubmissions,
			},
		),
		Receipts:   anchor.NewReceiptService(lister),
		State:      state.NewPackageService(canonicalizer, hasher),
		Inspect:    inspect.NewService(canonicalizer, hasher, evmchain.RawTxDecoder{}),
		Media:      media.NewHashService(hasher),
		Credential: credential.NewIssueService(validator, canonicalizer, hasher, ids, clock),
		Social:     social.NewService(api),
		Webpage:    webpage.NewService(webfetch.NewFetcher(0), webfetch.Extractor{}),
	}

	slog.Debug("services ready",
		"l2_configured", opts.Chains.L2RPCURL != "",
		"l1_configured", opts.Chains.L1RPCURL != "",
		"identity", opts.Chains.Identity,
		"receipts", opts.ReceiptsDB != "",
		"twitter", api != nil,
	)
	return out, nil
}

// credentialValidator compiles the embedded request schema unless a file
// override is configured.
func credentialValidator(ctx context.Context, override string) (*schema.Validator, error) {
	if override == "" {
		return schema.Compile("credential-request.json", credential.RequestSchema)
	}
	path, err := paths.NormalizeFilePath(override)
	if err != nil {
		return nil, err
	}
	data, err := filesystem.SchemaSource{}.ReadSchema(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	validator, err := schema.Compile(path, data)
	if err != nil {
		return nil, fmt.Errorf("%w: credential schema %s: %v", errInvalidInput, path, err)
	}
	return validator, nil
}

func (s *services) Close() error {
	var errs []error
	if s.receipts != nil {
		errs = append(errs, s.receipts.Close())
	}
	return errors.Join(errs...)
}
