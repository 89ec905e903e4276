package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/HerbHall/contactbook/internal/auth"
	"github.com/HerbHall/contactbook/internal/config"
)

func newTokenCmd(configPath *string) *cobra.Command {
	var (
		subject string
		roles   []string
		claims  []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token signed with auth.signing_key",
		Example: `  contactbook token --sub alice --role admin --claim country=Poland
  contactbook token --sub bob --ttl 15m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tok, err := issueToken(*configPath, subject, roles, claims, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "sub", "", "token subject")
	cmd.Flags().StringArrayVar(&roles, "role", nil, "role to grant (repeatable)")
	cmd.Flags().StringArrayVar(&claims, "claim", nil, "extra claim as key=value (repeatable)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}

func issueToken(configPath, subject string, roles, claims []string, ttl time.Duration) (string, error) {
	extra, err := parseClaims(claims)
	if err != nil {
		return "", err
	}

	v, err := config.Load(configPath)
	if err != nil {
		return "", err
	}
	cfg := config.New(v)

	iss, err := auth.NewIssuer(
		[]byte(cfg.GetString("auth.signing_key")),
		cfg.GetString("auth.issuer"),
		cfg.GetString("auth.audience"),
		nil,
	)
	if err != nil {
		return "", err
	}
	return iss.Issue(subject, roles, extra, ttl)
}

// parseClaims turns key=value pairs into a claim map.
func parseClaims(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("claim %q is not key=value", p)
		}
		switch k {
		case "sub", "iss", "aud", "exp", "iat", "nbf", auth.ClaimRole:
			return nil, fmt.Errorf("claim %q is reserved", k)
		}
		out[k] = v
	}
	return out, nil
}
