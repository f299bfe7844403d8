package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"mentorpay/internal/config"
	"mentorpay/internal/logging"
	"mentorpay/internal/models"
	"mentorpay/internal/provider"
	"mentorpay/internal/repositories"
	"mentorpay/internal/repositories/cache"
	"mentorpay/internal/services/account"
	"mentorpay/internal/utils"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// withDB opens the database for the duration of fn.
func withDB(cfg *config.Config, fn func(db *gorm.DB) error) error {
	db, err := repositories.OpenDB(cfg.DB)
	if err != nil {
		return err
	}
	defer repositories.CloseDB(db)
	return fn(db)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the payments tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return withDB(cfg, func(db *gorm.DB) error {
				if err := repositories.Migrate(db); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <accountId>",
		Short: "Re-read a recipient account from the provider and store its status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Stripe.SecretKey == "" {
				return errors.New("STRIPE_SECRET_KEY is required")
			}

			return withDB(cfg, func(db *gorm.DB) error {
				accounts := account.NewService(
					provider.NewStripe(cfg.Stripe.SecretKey),
					repositories.NewProfileRepository(db),
					logging.New(cfg.Log),
				)
				status, err := accounts.RefreshStatus(cmd.Context(), args[0], account.ScopeAll)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), status)
			})
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		email string
		role  string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <userId>",
		Short: "Mint a bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil || userID == 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			token, err := utils.GenerateToken(models.UserClaims{
				UserID: uint(userID),
				Email:  email,
				Role:   role,
			}, cfg.JWTSecret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&role, "role", models.RoleExpert, "role claim (user, expert, admin)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func eventsCmd() *cobra.Command {
	var (
		accountID string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recent webhook deliveries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return withDB(cfg, func(db *gorm.DB) error {
				events, err := repositories.NewPaymentEventRepository(db).Recent(cmd.Context(), accountID, limit)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for _, e := range events {
					state := "pending"
					if e.ProcessedAt != nil {
						state = "processed"
					}
					if e.ProcessingError != "" {
						state = "failed: " + e.ProcessingError
					}
					fmt.Fprintf(w, "%s  %-60s %-18s x%d  %s\n",
						e.ReceivedAt.Format(time.RFC3339), e.Type, e.AccountID, e.Deliveries, state)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "only events for this recipient account")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum events")
	return cmd
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the catalog listing cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "flush",
		Short: "Drop every cached catalog listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			svc := cache.NewCacheService(cache.NewRedisClient(cfg.Redis), cfg.Payments.CatalogCacheTTL)
			defer svc.Close()

			if err := svc.DeleteMany(cmd.Context(), svc.GenerateKey("catalog", "*")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "catalog cache flushed")
			return nil
		},
	})
	return cmd
}
