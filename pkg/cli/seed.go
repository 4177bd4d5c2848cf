package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dieselhub/dieselhub/pkg/auth"
	"github.com/dieselhub/dieselhub/pkg/catalog"
	"github.com/dieselhub/dieselhub/pkg/config"
	"github.com/dieselhub/dieselhub/pkg/observability/logger"
	"github.com/dieselhub/dieselhub/pkg/repository"
	"github.com/dieselhub/dieselhub/pkg/store/memory"
	"github.com/dieselhub/dieselhub/pkg/store/mongodb"
)

// seedManufacturers is the baseline catalog every fresh deployment gets.
var seedManufacturers = []catalog.Manufacturer{
	{Name: "Bosch", Slug: "bosch", Active: true, SortOrder: 1},
	{Name: "Delphi", Slug: "delphi", Active: true, SortOrder: 2},
	{Name: "Denso", Slug: "denso", Active: true, SortOrder: 3},
	{Name: "Siemens VDO", Slug: "siemens-vdo", Active: true, SortOrder: 4},
	{Name: "Caterpillar", Slug: "caterpillar", Active: true, SortOrder: 5},
}

func newSeedCommand(load configLoader) *cobra.Command {
	var actor string
	var token string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the baseline manufacturer catalog",
		Long: "Inserts the baseline manufacturers. Existing slugs are skipped, so the " +
			"command is safe to re-run. With --dry-run the seed executes against an " +
			"in-memory store and touches nothing.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}

			actorID, err := resolveActor(cfg, log, token, actor)
			if err != nil {
				return err
			}

			if dryRun {
				if err := seedCatalog(cmd.Context(), memory.New(), log, actorID); err != nil {
					return err
				}
				log.Info("dry run, no documents written")
				return nil
			}

			adapter, err := connectMongo(cfg, log)
			if err != nil {
				return err
			}
			defer adapter.Close()

			store, err := mongodb.NewDocumentStore(adapter)
			if err != nil {
				return err
			}
			return seedCatalog(cmd.Context(), store, log, actorID)
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "seed", "actor id recorded on created documents")
	cmd.Flags().StringVar(&token, "token", "", "admin token; its subject overrides --actor")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "run the seed against an in-memory store")
	return cmd
}

// resolveActor decides who the created documents are attributed to. A token,
// when given, must verify against the configured secret and its subject wins;
// otherwise the fallback actor id is used as-is.
func resolveActor(cfg *config.Config, log logger.Logger, token, fallback string) (string, error) {
	if token == "" {
		return fallback, nil
	}
	if cfg.Auth.JWTSecret == "" {
		return "", errors.New("auth.jwt_secret must be configured to verify --token")
	}
	verifier, err := auth.NewVerifier([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer, log)
	if err != nil {
		return "", err
	}
	claims, err := verifier.Verify(token)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}

func seedCatalog(ctx context.Context, store repository.Store, log logger.Logger, actor string) error {
	repo := catalog.NewManufacturerRepository(store, log)

	created := 0
	for _, m := range seedManufacturers {
		m := m
		err := repo.Create(ctx, &m, actor)
		switch {
		case err == nil:
			created++
		case repository.IsDuplicateKey(err):
			log.Debug("manufacturer already present", "slug", m.Slug)
		default:
			return err
		}
	}
	log.Info("seed finished", "created", created, "skipped", len(seedManufacturers)-created)
	return nil
}
